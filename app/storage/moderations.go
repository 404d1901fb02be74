package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/tg-moderator/app/storage/engine"
	"github.com/umputun/tg-moderator/lib/spamcheck"
)

// Moderations is a persistent dedup store and audit log of moderated messages.
// Each message key is reserved once within the retention window.
type Moderations struct {
	*engine.SQL
	engine.RWLocker
	ttl time.Duration
}

// moderationRow is a db representation of spamcheck.Record
type moderationRow struct {
	ID          int64     `db:"id"`
	GID         string    `db:"gid"`
	ChatID      int64     `db:"chat_id"`
	MsgID       int       `db:"msg_id"`
	Status      string    `db:"status"`
	UserID      int64     `db:"user_id"`
	UserName    string    `db:"user_name"`
	DisplayName string    `db:"display_name"`
	Text        string    `db:"text"`
	Checked     bool      `db:"checked"`
	Probability float64   `db:"probability"`
	Action      string    `db:"action"`
	Outcome     string    `db:"outcome"` // json
	Error       string    `db:"error"`
	Created     time.Time `db:"created"`
	Updated     time.Time `db:"updated"`
}

// moderations-related command constants
const (
	CmdCreateModerationsTable engine.DBCmd = iota + 100
	CmdCreateModerationsIndexes
	CmdReserveModeration
	CmdDeleteExpiredModeration
	CmdFinishModeration
)

var moderationsQueries = engine.NewQueryMap().
	Add(CmdCreateModerationsTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS moderations (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            gid TEXT NOT NULL DEFAULT '',
            chat_id INTEGER NOT NULL,
            msg_id INTEGER NOT NULL,
            status TEXT NOT NULL,
            user_id INTEGER DEFAULT 0,
            user_name TEXT DEFAULT '',
            display_name TEXT DEFAULT '',
            text TEXT DEFAULT '',
            checked BOOLEAN DEFAULT 0,
            probability REAL DEFAULT 0,
            action TEXT DEFAULT 'allow',
            outcome TEXT DEFAULT '{}',
            error TEXT DEFAULT '',
            created TIMESTAMP,
            updated TIMESTAMP,
            UNIQUE(gid, chat_id, msg_id)
        )`,
		Postgres: `CREATE TABLE IF NOT EXISTS moderations (
            id SERIAL PRIMARY KEY,
            gid TEXT NOT NULL DEFAULT '',
            chat_id BIGINT NOT NULL,
            msg_id INTEGER NOT NULL,
            status TEXT NOT NULL,
            user_id BIGINT DEFAULT 0,
            user_name TEXT DEFAULT '',
            display_name TEXT DEFAULT '',
            text TEXT DEFAULT '',
            checked BOOLEAN DEFAULT false,
            probability DOUBLE PRECISION DEFAULT 0,
            action TEXT DEFAULT 'allow',
            outcome TEXT DEFAULT '{}',
            error TEXT DEFAULT '',
            created TIMESTAMP,
            updated TIMESTAMP,
            UNIQUE(gid, chat_id, msg_id)
        )`,
	}).
	AddSame(CmdCreateModerationsIndexes, `
        CREATE INDEX IF NOT EXISTS idx_moderations_gid_updated ON moderations(gid, updated DESC);
        CREATE INDEX IF NOT EXISTS idx_moderations_gid_action ON moderations(gid, action)`).
	AddSame(CmdReserveModeration, "INSERT INTO moderations (gid, chat_id, msg_id, status, created, updated) "+
		"VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT (gid, chat_id, msg_id) DO NOTHING").
	AddSame(CmdDeleteExpiredModeration, "DELETE FROM moderations WHERE gid = ? AND chat_id = ? AND msg_id = ? AND updated < ?").
	AddSame(CmdFinishModeration, "UPDATE moderations SET status = ?, user_id = ?, user_name = ?, display_name = ?, "+
		"text = ?, checked = ?, probability = ?, action = ?, outcome = ?, error = ?, updated = ? "+
		"WHERE gid = ? AND chat_id = ? AND msg_id = ?")

// NewModerations creates a new Moderations storage keeping records for ttl
func NewModerations(ctx context.Context, db *engine.SQL, ttl time.Duration) (*Moderations, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is nil")
	}
	if ttl <= 0 {
		return nil, &spamcheck.ConfigError{Field: "dedup ttl", Reason: "must be positive"}
	}
	res := &Moderations{SQL: db, RWLocker: db.MakeLock(), ttl: ttl}
	cfg := engine.TableConfig{
		Name:          "moderations",
		CreateTable:   CmdCreateModerationsTable,
		CreateIndexes: CmdCreateModerationsIndexes,
		QueriesMap:    moderationsQueries,
		MigrateFunc:   func(context.Context, *sqlx.Tx, string) error { return nil },
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init moderations storage: %w", err)
	}
	return res, nil
}

// Reserve inserts a pending record for the key. Returns false if the key is already known
// and its record is within the retention window.
func (m *Moderations) Reserve(ctx context.Context, key spamcheck.Key) (bool, error) {
	m.Lock()
	defer m.Unlock()

	now := time.Now()
	tx, err := m.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, m.Adopt(m.query(CmdDeleteExpiredModeration)),
		m.GID(), key.ChatID, key.MessageID, now.Add(-m.ttl)); err != nil {
		return false, fmt.Errorf("failed to remove expired record %s: %w", key, err)
	}
	res, err := tx.ExecContext(ctx, m.Adopt(m.query(CmdReserveModeration)),
		m.GID(), key.ChatID, key.MessageID, spamcheck.StatusPending, now, now)
	if err != nil {
		return false, fmt.Errorf("failed to reserve %s: %w", key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return affected == 1, nil
}

// Finish stores the final state of a reserved record
func (m *Moderations) Finish(ctx context.Context, rec spamcheck.Record) error {
	outcome, err := json.Marshal(rec.Outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}
	if rec.Updated.IsZero() {
		rec.Updated = time.Now()
	}

	m.Lock()
	defer m.Unlock()

	res, err := m.ExecContext(ctx, m.Adopt(m.query(CmdFinishModeration)),
		rec.Status, rec.From.ID, rec.From.UserName, rec.From.DisplayName, rec.Text, rec.Checked, rec.Probability,
		rec.Action.String(), string(outcome), rec.Error, rec.Updated, m.GID(), rec.Key.ChatID, rec.Key.MessageID)
	if err != nil {
		return fmt.Errorf("failed to finish record %s: %w", rec.Key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("record %s not reserved", rec.Key)
	}
	log.Printf("[DEBUG] record %s finished: %s, %s", rec.Key, rec.Status, rec.Action)
	return nil
}

// Get returns the record by key
func (m *Moderations) Get(ctx context.Context, key spamcheck.Key) (spamcheck.Record, error) {
	m.RLock()
	defer m.RUnlock()

	var row moderationRow
	err := m.GetContext(ctx, &row, m.Adopt("SELECT * FROM moderations WHERE gid = ? AND chat_id = ? AND msg_id = ?"),
		m.GID(), key.ChatID, key.MessageID)
	if errors.Is(err, sql.ErrNoRows) {
		return spamcheck.Record{}, fmt.Errorf("record %s not found", key)
	}
	if err != nil {
		return spamcheck.Record{}, fmt.Errorf("failed to get record %s: %w", key, err)
	}
	return row.record()
}

// Recent returns up to limit last updated records, newest first.
// Only records with the given actions returned if actions are set.
func (m *Moderations) Recent(ctx context.Context, limit int, actions ...spamcheck.Action) ([]spamcheck.Record, error) {
	if limit <= 0 {
		limit = 100
	}
	query, args := "SELECT * FROM moderations WHERE gid = ?", []any{m.GID()}
	if len(actions) > 0 {
		names := make([]string, 0, len(actions))
		for _, a := range actions {
			names = append(names, a.String())
		}
		inQuery, inArgs, err := sqlx.In(" AND action IN (?)", names)
		if err != nil {
			return nil, fmt.Errorf("failed to make actions filter: %w", err)
		}
		query += inQuery
		args = append(args, inArgs...)
	}
	query += " ORDER BY updated DESC, id DESC LIMIT ?"
	args = append(args, limit)

	m.RLock()
	defer m.RUnlock()

	var rows []moderationRow
	if err := m.SelectContext(ctx, &rows, m.Adopt(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get recent records: %w", err)
	}
	res := make([]spamcheck.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, nil
}

// Cleanup removes records not updated within the retention window
func (m *Moderations) Cleanup(ctx context.Context) (int64, error) {
	m.Lock()
	defer m.Unlock()

	res, err := m.ExecContext(ctx, m.Adopt("DELETE FROM moderations WHERE gid = ? AND updated < ?"),
		m.GID(), time.Now().Add(-m.ttl))
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup records: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected > 0 {
		log.Printf("[DEBUG] removed %d expired records", affected)
	}
	return affected, nil
}

// Count returns a number of records, including pending ones
func (m *Moderations) Count(ctx context.Context) (int, error) {
	m.RLock()
	defer m.RUnlock()
	var count int
	if err := m.GetContext(ctx, &count, m.Adopt("SELECT COUNT(*) FROM moderations WHERE gid = ?"), m.GID()); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

func (m *Moderations) query(cmd engine.DBCmd) string {
	q, err := moderationsQueries.Pick(m.Type(), cmd)
	if err != nil {
		// all commands are registered for both dialects
		panic(err)
	}
	return q
}

func (r moderationRow) record() (spamcheck.Record, error) {
	action, err := spamcheck.ParseAction(r.Action)
	if err != nil {
		return spamcheck.Record{}, fmt.Errorf("bad record %d:%d: %w", r.ChatID, r.MsgID, err)
	}
	rec := spamcheck.Record{
		Key:         spamcheck.Key{ChatID: r.ChatID, MessageID: r.MsgID},
		Status:      spamcheck.Status(r.Status),
		From:        spamcheck.User{ID: r.UserID, UserName: r.UserName, DisplayName: r.DisplayName},
		Text:        r.Text,
		Checked:     r.Checked,
		Probability: r.Probability,
		Action:      action,
		Error:       r.Error,
		Updated:     r.Updated.Local(),
	}
	if r.Outcome != "" {
		if err := json.Unmarshal([]byte(r.Outcome), &rec.Outcome); err != nil {
			return spamcheck.Record{}, fmt.Errorf("can't unmarshal outcome of %s: %w", rec.Key, err)
		}
	}
	return rec, nil
}
