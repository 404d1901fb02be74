package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/umputun/tg-moderator/app/storage/engine"
	"github.com/umputun/tg-moderator/lib/spamcheck"
)

func (s *StorageTestSuite) TestModerations_New() {
	ctx := context.Background()
	_, err := NewModerations(ctx, nil, time.Hour)
	s.EqualError(err, "db connection is nil")

	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			_, err := NewModerations(ctx, db, 0)
			s.EqualError(err, "invalid dedup ttl: must be positive")
			m, err := NewModerations(ctx, db, time.Hour)
			s.Require().NoError(err)
			s.NotNil(m)
			_, err = NewModerations(ctx, db, time.Hour)
			s.NoError(err, "existing table")
		})
	}
}

func (s *StorageTestSuite) TestModerations_ReserveFinish() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			m, err := NewModerations(ctx, db, time.Hour)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE moderations")
			key := spamcheck.Key{ChatID: -100123, MessageID: 42}

			ok, err := m.Reserve(ctx, key)
			s.Require().NoError(err)
			s.True(ok)
			ok, err = m.Reserve(ctx, key)
			s.Require().NoError(err)
			s.False(ok, "duplicate")

			rec, err := m.Get(ctx, key)
			s.Require().NoError(err)
			s.Equal(spamcheck.StatusPending, rec.Status)

			final := spamcheck.Record{Key: key, Status: spamcheck.StatusFailed, Checked: true, Probability: 0.95,
				From:   spamcheck.User{ID: 7, UserName: "spammer", DisplayName: "Spam Bot"}, Text: "купите дешево",
				Action: spamcheck.ActionRemove, Error: "remove incomplete",
				Outcome: spamcheck.Outcome{Action: spamcheck.ActionRemove,
					Delete:   spamcheck.Effect{Status: spamcheck.EffectDone, Attempts: 1},
					Restrict: spamcheck.Effect{Status: spamcheck.EffectExhausted, Attempts: 3}},
			}
			s.Require().NoError(m.Finish(ctx, final))

			rec, err = m.Get(ctx, key)
			s.Require().NoError(err)
			s.Equal(spamcheck.StatusFailed, rec.Status)
			s.Equal(final.From, rec.From)
			s.Equal(final.Text, rec.Text)
			s.True(rec.Checked)
			s.InDelta(0.95, rec.Probability, 0.0001)
			s.Equal(spamcheck.ActionRemove, rec.Action)
			s.Equal(spamcheck.EffectExhausted, rec.Outcome.Restrict.Status)
			s.Equal(3, rec.Outcome.Restrict.Attempts)
			s.Equal("remove incomplete", rec.Error)
			s.False(rec.Updated.IsZero())

			ok, err = m.Reserve(ctx, key)
			s.Require().NoError(err)
			s.False(ok, "failed record still blocks redelivery")

			err = m.Finish(ctx, spamcheck.Record{Key: spamcheck.Key{ChatID: 1, MessageID: 1}, Status: spamcheck.StatusCompleted})
			s.EqualError(err, "record 1:1 not reserved")

			_, err = m.Get(ctx, spamcheck.Key{ChatID: 1, MessageID: 1})
			s.EqualError(err, "record 1:1 not found")
		})
	}
}

func (s *StorageTestSuite) TestModerations_Expiration() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			m, err := NewModerations(ctx, db, 100*time.Millisecond)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE moderations")

			for i := 1; i <= 3; i++ {
				ok, err := m.Reserve(ctx, spamcheck.Key{ChatID: 10, MessageID: i})
				s.Require().NoError(err)
				s.Require().True(ok)
			}
			time.Sleep(200 * time.Millisecond)
			ok, err := m.Reserve(ctx, spamcheck.Key{ChatID: 10, MessageID: 1})
			s.Require().NoError(err)
			s.True(ok, "expired key reserved again")

			removed, err := m.Cleanup(ctx)
			s.Require().NoError(err)
			s.Equal(int64(2), removed)
			count, err := m.Count(ctx)
			s.Require().NoError(err)
			s.Equal(1, count)
		})
	}
}

func (s *StorageTestSuite) TestModerations_Recent() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			m, err := NewModerations(ctx, db, time.Hour)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE moderations")

			actions := []spamcheck.Action{spamcheck.ActionAllow, spamcheck.ActionRemove, spamcheck.ActionFlag, spamcheck.ActionRemove}
			base := time.Now().Add(-time.Minute)
			for i, a := range actions {
				key := spamcheck.Key{ChatID: 10, MessageID: i + 1}
				_, err := m.Reserve(ctx, key)
				s.Require().NoError(err)
				s.Require().NoError(m.Finish(ctx, spamcheck.Record{Key: key, Status: spamcheck.StatusCompleted, Action: a,
					Checked: true, Updated: base.Add(time.Duration(i) * time.Second)}))
			}

			recs, err := m.Recent(ctx, 10)
			s.Require().NoError(err)
			s.Require().Len(recs, 4)
			s.Equal(4, recs[0].Key.MessageID, "newest first")

			recs, err = m.Recent(ctx, 2)
			s.Require().NoError(err)
			s.Len(recs, 2)

			recs, err = m.Recent(ctx, 10, spamcheck.ActionRemove, spamcheck.ActionFlag)
			s.Require().NoError(err)
			s.Require().Len(recs, 3)
			for _, r := range recs {
				s.NotEqual(spamcheck.ActionAllow, r.Action)
			}
		})
	}
}

func (s *StorageTestSuite) TestModerations_ConcurrentReserve() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			m, err := NewModerations(ctx, db, time.Hour)
			s.Require().NoError(err)
			defer db.Exec("DROP TABLE moderations")

			var reserved int32
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					ok, err := m.Reserve(ctx, spamcheck.Key{ChatID: 10, MessageID: 42})
					if err != nil {
						s.T().Errorf("reserve: %v", err)
						return
					}
					if ok {
						atomic.AddInt32(&reserved, 1)
					}
				}()
			}
			wg.Wait()
			s.Equal(int32(1), atomic.LoadInt32(&reserved))
		})
	}
}

func (s *StorageTestSuite) TestModerations_GroupIsolation() {
	ctx := context.Background()
	file := filepath.Join(s.T().TempDir(), "groups.db")
	db1, err := engine.NewSqlite(file, "gr1")
	s.Require().NoError(err)
	defer db1.Close()
	db2, err := engine.NewSqlite(file, "gr2")
	s.Require().NoError(err)
	defer db2.Close()

	m1, err := NewModerations(ctx, db1, time.Hour)
	s.Require().NoError(err)
	m2, err := NewModerations(ctx, db2, time.Hour)
	s.Require().NoError(err)

	key := spamcheck.Key{ChatID: 10, MessageID: 1}
	ok, err := m1.Reserve(ctx, key)
	s.Require().NoError(err)
	s.True(ok)
	ok, err = m2.Reserve(ctx, key)
	s.Require().NoError(err)
	s.True(ok, "same key in another group")

	count, err := m1.Count(ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}
