package store

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	ai "github.com/spetersoncode/aiagent"
	"github.com/spetersoncode/aiagent/fsutil"
)

const (
	// SessionFilePrefix starts every session file name.
	SessionFilePrefix = "session-"
	// UsersFileName holds the user registry of a JSONFile backend.
	UsersFileName = "users.json"
)

// JSONFile stores each session as a JSON array in dir/session-<key>.json and
// the users in dir/users.json.
//
// Writes within one JSONFile are serialized. Separate processes, or separate
// JSONFile values on the same directory, can still overwrite each other.
type JSONFile struct {
	dir string
	mu  sync.Mutex
}

var _ Backend = (*JSONFile)(nil)

// NewJSONFile creates the directory if needed and returns a backend rooted there.
func NewJSONFile(dir string) (*JSONFile, error) {
	if err := fsutil.Mkdir(dir); err != nil {
		return nil, err
	}
	return &JSONFile{dir: dir}, nil
}

// Dir returns the backend's directory.
func (j *JSONFile) Dir() string {
	return j.dir
}

// Path returns the file holding the session key.
func (j *JSONFile) Path(key string) string {
	return filepath.Join(j.dir, SessionFilePrefix+safeName(key)+".json")
}

// safeName keeps a key from escaping the store directory.
func safeName(key string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, key)
}

// Create writes an empty array for key, replacing any previous content.
func (j *JSONFile) Create(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return fsutil.OverwriteJSON(j.Path(key), []ai.ConversationRecord{})
}

// Append adds rec to the end of the session file.
func (j *JSONFile) Append(_ context.Context, key string, rec ai.ConversationRecord) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return fsutil.AppendJSON(j.Path(key), rec)
}

// Records reads the session file.
func (j *JSONFile) Records(_ context.Context, key string) ([]ai.ConversationRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	recs, err := fsutil.ReadJSONAs[ai.ConversationRecord](j.Path(key))
	if errors.Is(err, fsutil.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	return recs, err
}

// Exists reports whether the session file exists.
func (j *JSONFile) Exists(_ context.Context, key string) (bool, error) {
	return fsutil.Exists(j.Path(key))
}

func (j *JSONFile) readUsers() ([]ai.UserIdentity, error) {
	users, err := fsutil.ReadJSONAs[ai.UserIdentity](filepath.Join(j.dir, UsersFileName))
	if errors.Is(err, fsutil.ErrNotFound) {
		return nil, nil
	}
	return users, err
}

// Register adds u to users.json unless a matching identity is present.
func (j *JSONFile) Register(_ context.Context, u ai.UserIdentity) (ai.UserIdentity, error) {
	if err := checkUser(u); err != nil {
		return ai.UserIdentity{}, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	users, err := j.readUsers()
	if err != nil {
		return ai.UserIdentity{}, err
	}
	if i := slices.IndexFunc(users, u.Matches); i >= 0 {
		return users[i], nil
	}
	if err := fsutil.OverwriteJSON(filepath.Join(j.dir, UsersFileName), append(users, u)); err != nil {
		return ai.UserIdentity{}, err
	}
	return u, nil
}

// Find looks u up in users.json.
func (j *JSONFile) Find(_ context.Context, u ai.UserIdentity) (ai.UserIdentity, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	users, err := j.readUsers()
	if err != nil {
		return ai.UserIdentity{}, false, err
	}
	if i := slices.IndexFunc(users, u.Matches); i >= 0 {
		return users[i], true, nil
	}
	return ai.UserIdentity{}, false, nil
}
