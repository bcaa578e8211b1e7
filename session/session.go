// Package session keeps per-user conversation history for an agent.
//
// A Manager owns a folder (default "sessions") and opens sessions in one of
// three backends: process memory, one JSON file per user, or a SQLite
// database. Each session is keyed by the user's first non-empty identity
// field in the order name, username, email, phone.
//
//	m, err := session.New(session.Config{Platform: "telegram"})
//	s, err := m.UseJSONFileSession(ctx, session.Options{User: ai.UserIdentity{Phone: "+62811"}})
//	res, err := a.StartChat(ctx, agent.ChatParams{Session: s.History, Prompt: text})
//	err = s.SaveText(ctx, ai.RoleUser, text)
//	err = s.SaveText(ctx, ai.RoleAssistant, res.Text.Text)
package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	ai "github.com/spetersoncode/aiagent"
	"github.com/spetersoncode/aiagent/clock"
	"github.com/spetersoncode/aiagent/fsutil"
	"github.com/spetersoncode/aiagent/store"
)

const (
	// DefaultFolder holds session files when Config.Folder is empty.
	DefaultFolder = "sessions"
	// PlatformFileName marks a folder as owned by a platform.
	PlatformFileName = "platform.json"
	// SQLiteFileName is the database used by SQLite sessions.
	SQLiteFileName = "sessions.db"
)

// Kind names a storage backend.
type Kind string

const (
	KindMemory   Kind = "memory"
	KindJSONFile Kind = "jsonfile"
	KindSQLite   Kind = "sqlite"
)

// Valid reports whether k is a known backend.
func (k Kind) Valid() bool {
	return k == KindMemory || k == KindJSONFile || k == KindSQLite
}

// Config configures a Manager.
type Config struct {
	// Platform names the application writing the folder. Required.
	Platform string
	Folder   string
	Clock    clock.Clock
	Logger   zerolog.Logger
}

// PlatformMarker is the content of platform.json.
type PlatformMarker struct {
	Platform  string `json:"platform"`
	CreatedAt string `json:"createdAt"`
}

// Manager opens sessions and owns their backends.
type Manager struct {
	platform string
	folder   string
	clock    clock.Clock
	logger   zerolog.Logger

	memory *store.Memory

	mu       sync.Mutex
	marked   bool
	jsonFile *store.JSONFile
	sqlite   *store.SQLite
}

// New creates a manager. No file is touched until a file-backed session is used.
func New(cfg Config) (*Manager, error) {
	if cfg.Platform == "" {
		return nil, &ai.ConfigError{Fields: []string{"platform"}, Reason: "is required to initialize sessions"}
	}
	if cfg.Folder == "" {
		cfg.Folder = DefaultFolder
	}
	if cfg.Clock.Location == nil {
		cfg.Clock = clock.Default()
	}
	return &Manager{
		platform: cfg.Platform,
		folder:   cfg.Folder,
		clock:    cfg.Clock,
		logger:   cfg.Logger.With().Str("component", "session").Logger(),
		memory:   store.NewMemory(),
	}, nil
}

// Folder returns the directory holding file-backed sessions.
func (m *Manager) Folder() string {
	return m.folder
}

// Close releases the SQLite database if one was opened.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sqlite == nil {
		return nil
	}
	err := m.sqlite.Close()
	m.sqlite = nil
	return err
}

// markFolder writes platform.json once, unless the folder already has one.
// The caller holds m.mu.
func (m *Manager) markFolder() error {
	if m.marked {
		return nil
	}
	path := filepath.Join(m.folder, PlatformFileName)
	exists, err := fsutil.Exists(path)
	if err != nil {
		return err
	}
	if !exists {
		marker := []PlatformMarker{{Platform: m.platform, CreatedAt: m.clock.String()}}
		if err := fsutil.OverwriteJSON(path, marker); err != nil {
			return err
		}
		m.logger.Info().Str("path", path).Str("platform", m.platform).Msg("platform marker created")
	}
	m.marked = true
	return nil
}

// backend returns the store for kind, opening file backends on first use.
func (m *Manager) backend(kind Kind) (store.Backend, error) {
	if kind == KindMemory {
		return m.memory, nil
	}
	if !kind.Valid() {
		return nil, &ai.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown session backend %q", kind)}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.markFolder(); err != nil {
		return nil, err
	}

	switch kind {
	case KindJSONFile:
		if m.jsonFile == nil {
			s, err := store.NewJSONFile(m.folder)
			if err != nil {
				return nil, err
			}
			m.jsonFile = s
		}
		return m.jsonFile, nil
	default:
		if m.sqlite == nil {
			s, err := store.OpenSQLite(filepath.Join(m.folder, SQLiteFileName))
			if err != nil {
				return nil, err
			}
			m.sqlite = s
		}
		return m.sqlite, nil
	}
}

// Options selects the session to open.
type Options struct {
	User ai.UserIdentity
	// Key overrides the storage key derived from User.
	Key string
}

// Session is an open conversation for one user.
type Session struct {
	User ai.UserIdentity
	Key  string
	// History is the replayable conversation at the time the session was opened.
	History []ai.Message

	log   store.Log
	clock clock.Clock
}

// UseMemorySession opens a session kept in process memory.
func (m *Manager) UseMemorySession(ctx context.Context, opts Options) (*Session, error) {
	return m.Use(ctx, KindMemory, opts)
}

// UseJSONFileSession opens a session stored in <folder>/session-<key>.json.
func (m *Manager) UseJSONFileSession(ctx context.Context, opts Options) (*Session, error) {
	return m.Use(ctx, KindJSONFile, opts)
}

// UseSQLiteSession opens a session stored in <folder>/sessions.db.
func (m *Manager) UseSQLiteSession(ctx context.Context, opts Options) (*Session, error) {
	return m.Use(ctx, KindSQLite, opts)
}

// Use opens the user's session in the given backend. The user is registered
// and an existing session is resumed as is; a missing one is created empty.
func (m *Manager) Use(ctx context.Context, kind Kind, opts Options) (*Session, error) {
	if opts.User.IsZero() {
		return nil, fmt.Errorf("session: use: %w", &ai.ValidationError{Field: "user", Reason: "is required to start a session"})
	}
	key := opts.Key
	if key == "" {
		key = opts.User.Key()
	}

	b, err := m.backend(kind)
	if err != nil {
		return nil, fmt.Errorf("session: use: %w", err)
	}

	user, err := b.Register(ctx, opts.User)
	if err != nil {
		return nil, fmt.Errorf("session: register user: %w", err)
	}

	history, err := History(ctx, b, key)
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		if err := b.Create(ctx, key); err != nil {
			return nil, fmt.Errorf("session: create %s: %w", key, err)
		}
		m.logger.Info().Str("key", key).Str("backend", string(kind)).Msg("session created")
		history = []ai.Message{}
	case err != nil:
		return nil, fmt.Errorf("session: resume %s: %w", key, err)
	}

	return &Session{User: user, Key: key, History: history, log: b, clock: m.clock}, nil
}

// GetUserData returns the registered identity matching user in the given backend.
func (m *Manager) GetUserData(ctx context.Context, kind Kind, user ai.UserIdentity) (ai.UserIdentity, bool, error) {
	b, err := m.backend(kind)
	if err != nil {
		return ai.UserIdentity{}, false, fmt.Errorf("session: get user: %w", err)
	}
	return b.Find(ctx, user)
}

// GetHistory returns the replayable history of the session key.
func (m *Manager) GetHistory(ctx context.Context, kind Kind, key string) ([]ai.Message, error) {
	b, err := m.backend(kind)
	if err != nil {
		return nil, fmt.Errorf("session: get history: %w", err)
	}
	history, err := History(ctx, b, key)
	if err != nil {
		return nil, fmt.Errorf("session: get history: %w", err)
	}
	return history, nil
}

// Save appends rec to the session log. History is not updated.
func (s *Session) Save(ctx context.Context, rec ai.ConversationRecord) error {
	if err := s.log.Append(ctx, s.Key, rec); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	return nil
}

// SaveText records text from role, timestamped now.
func (s *Session) SaveText(ctx context.Context, role ai.Role, text string) error {
	return s.Save(ctx, ai.NewTextRecord(role, text, s.clock.Current()))
}

// Reload re-reads the history from the session log.
func (s *Session) Reload(ctx context.Context) error {
	history, err := History(ctx, s.log, s.Key)
	if err != nil {
		return fmt.Errorf("session: reload: %w", err)
	}
	s.History = history
	return nil
}

// History reads the session key and replays it as messages.
func History(ctx context.Context, log store.Log, key string) ([]ai.Message, error) {
	recs, err := log.Records(ctx, key)
	if err != nil {
		return nil, err
	}
	return Replay(recs), nil
}

// Replay orders records by timestamp, keeping append order for equal
// timestamps, and converts the text records into single-part messages.
// Payload records are skipped.
func Replay(recs []ai.ConversationRecord) []ai.Message {
	sorted := make([]ai.ConversationRecord, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	out := make([]ai.Message, 0, len(sorted))
	for _, rec := range sorted {
		if msg, ok := rec.Message(); ok {
			out = append(out, msg)
		}
	}
	return out
}
