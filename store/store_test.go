package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	ai "github.com/spetersoncode/aiagent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	jsonStore, err := NewJSONFile(filepath.Join(t.TempDir(), "sessions"))
	require.NoError(t, err)

	sqliteStore, err := OpenSQLite(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]Backend{
		"memory":   NewMemory(),
		"jsonfile": jsonStore,
		"sqlite":   sqliteStore,
	}
}

var t0 = time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

func TestLog(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ok, err := b.Exists(ctx, "alice")
			require.NoError(t, err)
			assert.False(t, ok)

			_, err = b.Records(ctx, "alice")
			assert.ErrorIs(t, err, ErrSessionNotFound)

			require.NoError(t, b.Create(ctx, "alice"))
			recs, err := b.Records(ctx, "alice")
			require.NoError(t, err)
			assert.Empty(t, recs)

			payload, err := ai.NewPayloadRecord(ai.RoleAssistant, map[string]int{"score": 3}, t0.Add(2*time.Second))
			require.NoError(t, err)
			want := []ai.ConversationRecord{
				ai.NewTextRecord(ai.RoleUser, "hi", t0),
				ai.NewTextRecord(ai.RoleAssistant, "hello", t0.Add(time.Second)),
				payload,
			}
			for _, rec := range want {
				require.NoError(t, b.Append(ctx, "alice", rec))
			}

			recs, err = b.Records(ctx, "alice")
			require.NoError(t, err)
			require.Len(t, recs, 3)
			for i := range want {
				assert.Equal(t, want[i].Role, recs[i].Role)
				assert.Equal(t, want[i].Text, recs[i].Text)
				assert.True(t, want[i].Timestamp.Equal(recs[i].Timestamp))
			}
			assert.JSONEq(t, `{"score":3}`, string(recs[2].Payload))

			require.NoError(t, b.Create(ctx, "alice"))
			recs, err = b.Records(ctx, "alice")
			require.NoError(t, err)
			assert.Empty(t, recs)
		})
	}
}

func TestLogRejectsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	both := ai.ConversationRecord{Role: ai.RoleUser, Timestamp: t0, Text: "x", Payload: json.RawMessage(`{}`)}

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, b.Append(ctx, "bob", both), ai.ErrValidation)
			assert.ErrorIs(t, b.Append(ctx, "bob", ai.ConversationRecord{Role: ai.RoleUser}), ai.ErrValidation)
			assert.ErrorIs(t, b.Append(ctx, "", ai.NewTextRecord(ai.RoleUser, "x", t0)), ai.ErrValidation)

			ok, err := b.Exists(ctx, "bob")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			alice := ai.UserIdentity{Name: "Alice", Phone: "+6281"}

			got, err := b.Register(ctx, alice)
			require.NoError(t, err)
			assert.Equal(t, alice, got)

			got, err = b.Register(ctx, ai.UserIdentity{Phone: "+6281", Email: "a@example.com"})
			require.NoError(t, err)
			assert.Equal(t, alice, got)

			found, ok, err := b.Find(ctx, ai.UserIdentity{Name: "Alice"})
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, alice, found)

			_, ok, err = b.Find(ctx, ai.UserIdentity{Name: "Bob"})
			require.NoError(t, err)
			assert.False(t, ok)

			_, err = b.Register(ctx, ai.UserIdentity{})
			assert.ErrorIs(t, err, ai.ErrValidation)
		})
	}
}

func TestJSONFileLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewJSONFile(dir)
	require.NoError(t, err)

	require.NoError(t, s.Append(ctx, "a@example.com", ai.NewTextRecord(ai.RoleUser, "hi", t0)))
	_, err = s.Register(ctx, ai.UserIdentity{Email: "a@example.com"})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "session-a@example.com.json"))
	assert.FileExists(t, filepath.Join(dir, UsersFileName))

	data, err := os.ReadFile(filepath.Join(dir, "session-a@example.com.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"role":"user","timestamp":"2024-05-01T10:00:00Z","text":"hi"}]`, string(data))

	assert.Equal(t, filepath.Join(dir, "session-a_b.json"), s.Path("a/b"))
}

func TestSQLiteInMemory(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Append(ctx, "k", ai.NewTextRecord(ai.RoleUser, "hi", t0)))
	recs, err := s.Records(ctx, "k")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
