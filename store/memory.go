package store

import (
	"context"
	"slices"
	"sync"

	ai "github.com/spetersoncode/aiagent"
)

// Memory keeps sessions and users in process memory.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string][]ai.ConversationRecord
	users    []ai.UserIdentity
}

var _ Backend = (*Memory)(nil)

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string][]ai.ConversationRecord),
	}
}

// Create makes key an empty session.
func (m *Memory) Create(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = []ai.ConversationRecord{}
	return nil
}

// Append adds rec to the session.
func (m *Memory) Append(_ context.Context, key string, rec ai.ConversationRecord) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = append(m.sessions[key], rec)
	return nil
}

// Records returns a copy of the session's records.
func (m *Memory) Records(_ context.Context, key string) ([]ai.ConversationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs, ok := m.sessions[key]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return slices.Clone(recs), nil
}

// Exists reports whether the session has been created.
func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sessions[key]
	return ok, nil
}

// Register stores u unless a matching identity exists.
func (m *Memory) Register(_ context.Context, u ai.UserIdentity) (ai.UserIdentity, error) {
	if err := checkUser(u); err != nil {
		return ai.UserIdentity{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := slices.IndexFunc(m.users, u.Matches); i >= 0 {
		return m.users[i], nil
	}
	m.users = append(m.users, u)
	return u, nil
}

// Find returns the registered identity matching u.
func (m *Memory) Find(_ context.Context, u ai.UserIdentity) (ai.UserIdentity, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := slices.IndexFunc(m.users, u.Matches); i >= 0 {
		return m.users[i], true, nil
	}
	return ai.UserIdentity{}, false, nil
}
