package aiagent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationRecord_Validate(t *testing.T) {
	at := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	payload, err := NewPayloadRecord(RoleAssistant, map[string]int{"score": 7}, at)
	require.NoError(t, err)

	tests := []struct {
		name    string
		record  ConversationRecord
		wantErr bool
	}{
		{"text", NewTextRecord(RoleUser, "Hello", at), false},
		{"payload", payload, false},
		{"system role", NewTextRecord(RoleSystem, "x", at), true},
		{"empty", ConversationRecord{Role: RoleUser, Timestamp: at}, true},
		{"both", ConversationRecord{Role: RoleUser, Text: "x", Payload: []byte(`{}`)}, true},
		{"null payload", ConversationRecord{Role: RoleUser, Payload: []byte(`null`)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConversationRecord_Message(t *testing.T) {
	msg, ok := NewTextRecord(RoleAssistant, "Hi there", time.Now()).Message()
	require.True(t, ok)
	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Equal(t, []ContentPart{NewTextPart("Hi there")}, msg.Parts)

	rec, err := NewPayloadRecord(RoleUser, []string{"a"}, time.Now())
	require.NoError(t, err)
	_, ok = rec.Message()
	assert.False(t, ok)
}

func TestUserIdentity(t *testing.T) {
	t.Run("key priority", func(t *testing.T) {
		assert.Equal(t, "Ana", UserIdentity{Name: "Ana", Email: "a@x.io"}.Key())
		assert.Equal(t, "ana", UserIdentity{Username: "ana", Phone: "1"}.Key())
		assert.Equal(t, "a@x.io", UserIdentity{Email: "a@x.io", Phone: "1"}.Key())
		assert.Equal(t, "1", UserIdentity{Phone: "1"}.Key())
		assert.True(t, UserIdentity{}.IsZero())
	})

	t.Run("matches on any shared field", func(t *testing.T) {
		a := UserIdentity{Name: "Ana", Email: "a@x.io"}
		assert.True(t, a.Matches(UserIdentity{Email: "a@x.io"}))
		assert.False(t, a.Matches(UserIdentity{Name: "Bo"}))
		assert.False(t, UserIdentity{}.Matches(UserIdentity{}))
	})
}
