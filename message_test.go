package aiagent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFilePart(t *testing.T) {
	t.Run("keeps declared mime type", func(t *testing.T) {
		p := NewFilePart("QUJD", "image/png")
		assert.Equal(t, ContentPartTypeFile, p.Type)
		assert.Equal(t, "QUJD", p.Data)
		assert.Equal(t, "image/png", p.MimeType)
		assert.True(t, p.IsImage())
	})

	t.Run("defaults empty mime type", func(t *testing.T) {
		p := NewFilePart("QUJD", "")
		assert.Equal(t, DefaultMimeType, p.MimeType)
		assert.False(t, p.IsImage())
	})
}

func TestRole_IsConversational(t *testing.T) {
	assert.True(t, RoleUser.IsConversational())
	assert.True(t, RoleAssistant.IsConversational())
	assert.False(t, RoleSystem.IsConversational())
	assert.False(t, RoleTool.IsConversational())
	assert.False(t, Role("moderator").IsConversational())
}

func TestMedia_IsEmpty(t *testing.T) {
	var nilMedia *Media
	assert.True(t, nilMedia.IsEmpty())
	assert.True(t, (&Media{MimeType: "image/png"}).IsEmpty())
	assert.False(t, (&Media{InlineData: "QUJD"}).IsEmpty())
}

func TestMessage_Text(t *testing.T) {
	t.Run("plain content", func(t *testing.T) {
		assert.Equal(t, "Hello", NewUserMessage("Hello").Text())
	})

	t.Run("concatenates text parts only", func(t *testing.T) {
		msg := Message{Role: RoleUser, Parts: []ContentPart{
			NewTextPart("Describe "),
			NewFilePart("QUJD", "image/png"),
			NewTextPart("this"),
		}}
		assert.True(t, msg.HasParts())
		assert.Equal(t, "Describe this", msg.Text())
	})
}

func TestMessage_IsEmpty(t *testing.T) {
	assert.True(t, Message{Role: RoleAssistant}.IsEmpty())
	assert.False(t, NewAssistantMessage("hi").IsEmpty())
	assert.False(t, Message{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "1"}}}.IsEmpty())
}

func TestGenerateMessageID(t *testing.T) {
	a, b := GenerateMessageID(), GenerateMessageID()
	assert.True(t, strings.HasPrefix(a, "msg-"))
	assert.NotEqual(t, a, b)
}

func TestUsage_Add(t *testing.T) {
	u := Usage{InputTokens: 3, OutputTokens: 4}
	assert.Equal(t, Usage{InputTokens: 4, OutputTokens: 6}, u.Add(Usage{InputTokens: 1, OutputTokens: 2}))
}
