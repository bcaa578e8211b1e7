package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	ai "github.com/spetersoncode/aiagent"
	"github.com/spetersoncode/aiagent/clock"
	"github.com/spetersoncode/aiagent/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock advances one second per reading.
func tickingClock() clock.Clock {
	at := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	return clock.Clock{Location: time.UTC, Now: func() time.Time {
		at = at.Add(time.Second)
		return at
	}}
}

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := New(Config{
		Platform: "cli",
		Folder:   filepath.Join(t.TempDir(), "sessions"),
		Clock:    tickingClock(),
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestNew_RequiresPlatform(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrConfig)
}

func TestNew_Defaults(t *testing.T) {
	m, err := New(Config{Platform: "cli"})
	require.NoError(t, err)
	assert.Equal(t, DefaultFolder, m.Folder())
}

func TestNew_MemoryTouchesNoFiles(t *testing.T) {
	m := newManager(t)
	_, err := m.UseMemorySession(context.Background(), Options{User: ai.UserIdentity{Name: "ann"}})
	require.NoError(t, err)

	_, err = os.Stat(m.Folder())
	assert.True(t, os.IsNotExist(err))
}

func TestUse_AllBackends(t *testing.T) {
	for _, kind := range []Kind{KindMemory, KindJSONFile, KindSQLite} {
		t.Run(string(kind), func(t *testing.T) {
			ctx := context.Background()
			m := newManager(t)
			user := ai.UserIdentity{Username: "ann", Phone: "+62811"}

			s, err := m.Use(ctx, kind, Options{User: user})
			require.NoError(t, err)
			assert.Equal(t, "ann", s.Key)
			assert.Equal(t, user, s.User)
			assert.NotNil(t, s.History)
			assert.Empty(t, s.History)

			require.NoError(t, s.SaveText(ctx, ai.RoleUser, "Hello"))
			require.NoError(t, s.SaveText(ctx, ai.RoleAssistant, "Hi there"))
			payload, err := ai.NewPayloadRecord(ai.RoleAssistant, map[string]int{"score": 3}, time.Now())
			require.NoError(t, err)
			require.NoError(t, s.Save(ctx, payload))

			resumed, err := m.Use(ctx, kind, Options{User: ai.UserIdentity{Phone: "+62811", Username: "ann"}})
			require.NoError(t, err)
			require.Len(t, resumed.History, 2)
			assert.Equal(t, ai.RoleUser, resumed.History[0].Role)
			assert.Equal(t, "Hello", resumed.History[0].Text())
			assert.Equal(t, ai.RoleAssistant, resumed.History[1].Role)
			assert.Equal(t, "Hi there", resumed.History[1].Text())

			found, ok, err := m.GetUserData(ctx, kind, ai.UserIdentity{Phone: "+62811"})
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, user, found)

			history, err := m.GetHistory(ctx, kind, "ann")
			require.NoError(t, err)
			assert.Len(t, history, 2)
		})
	}
}

func TestUse_RejectsAnonymousUser(t *testing.T) {
	m := newManager(t)
	_, err := m.UseMemorySession(context.Background(), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrValidation)
}

func TestUse_UnknownKind(t *testing.T) {
	m := newManager(t)
	_, err := m.Use(context.Background(), Kind("redis"), Options{User: ai.UserIdentity{Name: "ann"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrValidation)
}

func TestUse_KeyOverride(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	s, err := m.UseJSONFileSession(ctx, Options{User: ai.UserIdentity{Name: "ann"}, Key: "ann-work"})
	require.NoError(t, err)
	assert.Equal(t, "ann-work", s.Key)

	exists, err := fsutil.Exists(filepath.Join(m.Folder(), "session-ann-work.json"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUse_EmptySessionIsResumed(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	opts := Options{User: ai.UserIdentity{Email: "ann@example.com"}}

	_, err := m.UseSQLiteSession(ctx, opts)
	require.NoError(t, err)
	s, err := m.UseSQLiteSession(ctx, opts)
	require.NoError(t, err)
	assert.NotNil(t, s.History)
	assert.Empty(t, s.History)
}

func TestUse_ReopenKeepsPayloadRecords(t *testing.T) {
	for _, kind := range []Kind{KindMemory, KindJSONFile, KindSQLite} {
		t.Run(string(kind), func(t *testing.T) {
			ctx := context.Background()
			m := newManager(t)
			opts := Options{User: ai.UserIdentity{Name: "ann"}}

			s, err := m.Use(ctx, kind, opts)
			require.NoError(t, err)
			payload, err := ai.NewPayloadRecord(ai.RoleAssistant, map[string]string{"mood": "calm"}, time.Now())
			require.NoError(t, err)
			require.NoError(t, s.Save(ctx, payload))

			reopened, err := m.Use(ctx, kind, opts)
			require.NoError(t, err)
			assert.Empty(t, reopened.History)

			b, err := m.backend(kind)
			require.NoError(t, err)
			recs, err := b.Records(ctx, "ann")
			require.NoError(t, err)
			require.Len(t, recs, 1)
			assert.JSONEq(t, `{"mood":"calm"}`, string(recs[0].Payload))
		})
	}
}

func TestPlatformMarker(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	_, err := m.UseJSONFileSession(ctx, Options{User: ai.UserIdentity{Name: "ann"}})
	require.NoError(t, err)

	path := filepath.Join(m.Folder(), PlatformFileName)
	markers, err := fsutil.ReadJSONAs[PlatformMarker](path)
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, "cli", markers[0].Platform)
	assert.Equal(t, "2024-03-05T09:00:01Z", markers[0].CreatedAt)

	// A second manager on the same folder keeps the first marker.
	other, err := New(Config{Platform: "telegram", Folder: m.Folder(), Logger: zerolog.Nop()})
	require.NoError(t, err)
	_, err = other.UseJSONFileSession(ctx, Options{User: ai.UserIdentity{Name: "bob"}})
	require.NoError(t, err)

	markers, err = fsutil.ReadJSONAs[PlatformMarker](path)
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, "cli", markers[0].Platform)
}

func TestSession_Reload(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	s, err := m.UseMemorySession(ctx, Options{User: ai.UserIdentity{Name: "ann"}})
	require.NoError(t, err)
	require.NoError(t, s.SaveText(ctx, ai.RoleUser, "ping"))
	assert.Empty(t, s.History)

	require.NoError(t, s.Reload(ctx))
	require.Len(t, s.History, 1)
	assert.Equal(t, "ping", s.History[0].Text())
}

func TestReplay(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recs := []ai.ConversationRecord{
		ai.NewTextRecord(ai.RoleAssistant, "third", t0.Add(2*time.Minute)),
		ai.NewTextRecord(ai.RoleUser, "first", t0),
		{Role: ai.RoleAssistant, Timestamp: t0.Add(time.Minute), Payload: []byte(`{"k":1}`)},
		ai.NewTextRecord(ai.RoleUser, "second-a", t0.Add(time.Minute)),
		ai.NewTextRecord(ai.RoleAssistant, "second-b", t0.Add(time.Minute)),
	}

	got := Replay(recs)
	texts := make([]string, len(got))
	for i, m := range got {
		texts[i] = m.Text()
		require.Len(t, m.Parts, 1)
	}
	assert.Equal(t, []string{"first", "second-a", "second-b", "third"}, texts)
	assert.Equal(t, "third", recs[0].Text, "input must not be reordered")
}
