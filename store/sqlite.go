package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	ai "github.com/spetersoncode/aiagent"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS sessions (
		key TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_key TEXT NOT NULL REFERENCES sessions(key) ON DELETE CASCADE,
		role TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		text TEXT,
		payload TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_records_session ON records(session_key, id);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL DEFAULT '',
		username TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT ''
	);
`

// SQLite stores sessions and users in a SQLite database.
type SQLite struct {
	db *sql.DB
}

var _ Backend = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database at path. Use ":memory:"
// for a private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	if path == ":memory:" {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: initialize schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Create makes key an empty session.
func (s *SQLite) Create(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: create session: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE session_key = ?`, key); err != nil {
		return fmt.Errorf("store: create session: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (key, created_at) VALUES (?, ?) ON CONFLICT(key) DO NOTHING`,
		key, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("store: create session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: create session: %w", err)
	}
	return nil
}

// Append adds rec to the session.
func (s *SQLite) Append(ctx context.Context, key string, rec ai.ConversationRecord) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: append: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (key, created_at) VALUES (?, ?) ON CONFLICT(key) DO NOTHING`,
		key, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("store: append: %w", err)
	}

	var text, payload sql.NullString
	if rec.Text != "" {
		text = sql.NullString{String: rec.Text, Valid: true}
	}
	if len(rec.Payload) > 0 {
		payload = sql.NullString{String: string(rec.Payload), Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO records (session_key, role, timestamp, text, payload) VALUES (?, ?, ?, ?, ?)`,
		key, string(rec.Role), rec.Timestamp.UnixNano(), text, payload); err != nil {
		return fmt.Errorf("store: append: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: append: %w", err)
	}
	return nil
}

// Records returns the session's records in append order.
func (s *SQLite) Records(ctx context.Context, key string) ([]ai.ConversationRecord, error) {
	ok, err := s.Exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSessionNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, timestamp, text, payload FROM records WHERE session_key = ? ORDER BY id`, key)
	if err != nil {
		return nil, fmt.Errorf("store: read records: %w", err)
	}
	defer rows.Close()

	recs := []ai.ConversationRecord{}
	for rows.Next() {
		var (
			role          string
			ts            int64
			text, payload sql.NullString
		)
		if err := rows.Scan(&role, &ts, &text, &payload); err != nil {
			return nil, fmt.Errorf("store: read records: %w", err)
		}
		rec := ai.ConversationRecord{
			Role:      ai.Role(role),
			Timestamp: time.Unix(0, ts).UTC(),
			Text:      text.String,
		}
		if payload.Valid {
			rec.Payload = []byte(payload.String)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: read records: %w", err)
	}
	return recs, nil
}

// Exists reports whether the session has been created.
func (s *SQLite) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE key = ?`, key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("store: check session: %w", err)
	}
	return n > 0, nil
}

const findUserQuery = `
	SELECT name, username, email, phone FROM users
	WHERE (? != '' AND name = ?)
	   OR (? != '' AND username = ?)
	   OR (? != '' AND email = ?)
	   OR (? != '' AND phone = ?)
	ORDER BY id LIMIT 1`

func (s *SQLite) find(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, u ai.UserIdentity) (ai.UserIdentity, bool, error) {
	var found ai.UserIdentity
	err := q.QueryRowContext(ctx, findUserQuery,
		u.Name, u.Name, u.Username, u.Username, u.Email, u.Email, u.Phone, u.Phone,
	).Scan(&found.Name, &found.Username, &found.Email, &found.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return ai.UserIdentity{}, false, nil
	}
	if err != nil {
		return ai.UserIdentity{}, false, fmt.Errorf("store: find user: %w", err)
	}
	return found, true, nil
}

// Register stores u unless a matching identity exists.
func (s *SQLite) Register(ctx context.Context, u ai.UserIdentity) (ai.UserIdentity, error) {
	if err := checkUser(u); err != nil {
		return ai.UserIdentity{}, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ai.UserIdentity{}, fmt.Errorf("store: register user: %w", err)
	}
	defer tx.Rollback()

	existing, ok, err := s.find(ctx, tx, u)
	if err != nil {
		return ai.UserIdentity{}, err
	}
	if ok {
		return existing, nil
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO users (name, username, email, phone) VALUES (?, ?, ?, ?)`,
		u.Name, u.Username, u.Email, u.Phone); err != nil {
		return ai.UserIdentity{}, fmt.Errorf("store: register user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return ai.UserIdentity{}, fmt.Errorf("store: register user: %w", err)
	}
	return u, nil
}

// Find returns the registered identity matching u.
func (s *SQLite) Find(ctx context.Context, u ai.UserIdentity) (ai.UserIdentity, bool, error) {
	return s.find(ctx, s.db, u)
}
