package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-pkgz/testutils/containers"
	"github.com/stretchr/testify/suite"

	"github.com/umputun/tg-moderator/app/storage/engine"
)

// StorageTestSuite runs storage tests on sqlite, and on postgres if ENABLE_PG_TESTS set
type StorageTestSuite struct {
	suite.Suite
	dbs         map[string]*engine.SQL
	pgContainer *containers.PostgresTestContainer
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageTestSuite))
}

func (s *StorageTestSuite) SetupSuite() {
	s.dbs = make(map[string]*engine.SQL)

	sqliteDB, err := engine.NewSqlite(filepath.Join(s.T().TempDir(), "test.db"), "gr1")
	s.Require().NoError(err)
	s.dbs["sqlite"] = sqliteDB

	if os.Getenv("ENABLE_PG_TESTS") != "" {
		ctx := context.Background()
		s.pgContainer = containers.NewPostgresTestContainerWithDB(ctx, s.T(), "moderator_test")
		pgDB, err := engine.NewPostgres(ctx, s.pgContainer.ConnectionString(), "gr1")
		s.Require().NoError(err)
		s.dbs["postgres"] = pgDB
	}
}

func (s *StorageTestSuite) TearDownSuite() {
	for _, db := range s.dbs {
		s.NoError(db.Close())
	}
}

// SetupTest drops all tables to start each test with empty storage
func (s *StorageTestSuite) SetupTest() {
	for _, db := range s.dbs {
		_, err := db.Exec("DROP TABLE IF EXISTS moderations")
		s.Require().NoError(err)
		_, err = db.Exec("DROP TABLE IF EXISTS approved_users")
		s.Require().NoError(err)
	}
}

func (s *StorageTestSuite) getTestDB() []*engine.SQL {
	res := make([]*engine.SQL, 0, len(s.dbs))
	for _, db := range s.dbs {
		res = append(res, db)
	}
	return res
}
