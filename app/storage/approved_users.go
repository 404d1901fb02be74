package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/tg-moderator/app/storage/engine"
	"github.com/umputun/tg-moderator/lib/approved"
)

// ApprovedUsers is a storage for users approved after their first messages
type ApprovedUsers struct {
	*engine.SQL
	engine.RWLocker
}

type approvedUsersInfo struct {
	UserID    int64     `db:"uid"`
	GID       string    `db:"gid"`
	UserName  string    `db:"name"`
	Timestamp time.Time `db:"timestamp"`
}

// approved users-related command constants
const (
	CmdCreateApprovedUsersTable engine.DBCmd = iota + 200
	CmdCreateApprovedUsersIndexes
	CmdUpsertApprovedUser
)

var approvedUsersQueries = engine.NewQueryMap().
	Add(CmdCreateApprovedUsersTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS approved_users (
            uid INTEGER NOT NULL,
            gid TEXT NOT NULL DEFAULT '',
            name TEXT DEFAULT '',
            timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            UNIQUE(gid, uid)
        )`,
		Postgres: `CREATE TABLE IF NOT EXISTS approved_users (
            uid BIGINT NOT NULL,
            gid TEXT NOT NULL DEFAULT '',
            name TEXT DEFAULT '',
            timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            UNIQUE(gid, uid)
        )`,
	}).
	AddSame(CmdCreateApprovedUsersIndexes, `CREATE INDEX IF NOT EXISTS idx_approved_users_gid ON approved_users(gid)`).
	AddSame(CmdUpsertApprovedUser, "INSERT INTO approved_users (uid, gid, name, timestamp) VALUES (?, ?, ?, ?) "+
		"ON CONFLICT (gid, uid) DO UPDATE SET name = excluded.name, timestamp = excluded.timestamp")

// NewApprovedUsers creates a new ApprovedUsers storage
func NewApprovedUsers(ctx context.Context, db *engine.SQL) (*ApprovedUsers, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is nil")
	}
	res := &ApprovedUsers{SQL: db, RWLocker: db.MakeLock()}
	cfg := engine.TableConfig{
		Name:          "approved_users",
		CreateTable:   CmdCreateApprovedUsersTable,
		CreateIndexes: CmdCreateApprovedUsersIndexes,
		QueriesMap:    approvedUsersQueries,
		MigrateFunc:   func(context.Context, *sqlx.Tx, string) error { return nil },
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init approved users storage: %w", err)
	}
	return res, nil
}

// Read returns all approved users of the group
func (au *ApprovedUsers) Read(ctx context.Context) ([]approved.UserInfo, error) {
	au.RLock()
	defer au.RUnlock()

	var users []approvedUsersInfo
	err := au.SelectContext(ctx, &users,
		au.Adopt("SELECT uid, gid, name, timestamp FROM approved_users WHERE gid = ? ORDER BY timestamp DESC"), au.GID())
	if err != nil {
		return nil, fmt.Errorf("failed to get approved users: %w", err)
	}

	res := make([]approved.UserInfo, 0, len(users))
	for _, u := range users {
		res = append(res, approved.UserInfo{UserID: u.UserID, UserName: u.UserName, Timestamp: u.Timestamp.Local()})
	}
	return res, nil
}

// Write adds or updates the approved user
func (au *ApprovedUsers) Write(ctx context.Context, user approved.UserInfo) error {
	if user.UserID == 0 {
		return fmt.Errorf("user id can't be empty")
	}
	if user.Timestamp.IsZero() {
		user.Timestamp = time.Now()
	}
	query, err := approvedUsersQueries.Pick(au.Type(), CmdUpsertApprovedUser)
	if err != nil {
		return fmt.Errorf("failed to get upsert query: %w", err)
	}

	au.Lock()
	defer au.Unlock()
	if _, err := au.ExecContext(ctx, au.Adopt(query), user.UserID, au.GID(), user.UserName, user.Timestamp); err != nil {
		return fmt.Errorf("failed to insert user %d: %w", user.UserID, err)
	}
	log.Printf("[INFO] user %q (%d) added to approved users", user.UserName, user.UserID)
	return nil
}

// Delete removes the user from approved users
func (au *ApprovedUsers) Delete(ctx context.Context, id int64) error {
	au.Lock()
	defer au.Unlock()
	res, err := au.ExecContext(ctx, au.Adopt("DELETE FROM approved_users WHERE uid = ? AND gid = ?"), id, au.GID())
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d not found", id)
	}
	log.Printf("[INFO] user %d removed from approved users", id)
	return nil
}
