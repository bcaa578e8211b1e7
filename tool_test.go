package aiagent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolChoiceConstants(t *testing.T) {
	assert.Equal(t, ToolChoice("auto"), ToolChoiceAuto)
	assert.Equal(t, ToolChoice("none"), ToolChoiceNone)
	assert.Equal(t, ToolChoice("required"), ToolChoiceRequired)
}

func TestNewToolResultMessage(t *testing.T) {
	msg := NewToolResultMessage(
		ToolResult{ToolCallID: "call_1", Name: "getCurrentTime", Content: "17/10/2026 10:00:00"},
		ToolResult{ToolCallID: "call_2", Name: "lookup", Content: "not found", IsError: true},
	)

	assert.Equal(t, RoleTool, msg.Role)
	assert.Len(t, msg.ToolResults, 2)
	assert.Equal(t, "getCurrentTime", msg.ToolResults[0].Name)
	assert.True(t, msg.ToolResults[1].IsError)
	assert.False(t, msg.IsEmpty())
}
