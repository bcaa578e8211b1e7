// Package event defines the progress events an agent emits while it works:
// run and step boundaries, streamed text, tool calls and model fallbacks.
package event

import (
	"time"

	ai "github.com/spetersoncode/aiagent"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when a query begins.
	RunStart Type = "run_start"

	// RunEnd fires when a query completes successfully.
	RunEnd Type = "run_end"

	// RunError fires when a query fails.
	RunError Type = "run_error"
)

// Step lifecycle events. A step is one model call within the tool loop.
const (
	StepStart Type = "step_start"
	StepEnd   Type = "step_end"
)

// MessageDelta fires for each streamed text fragment.
const MessageDelta Type = "message_delta"

// Tool call lifecycle events
const (
	// ToolCallStart fires before a requested tool runs.
	ToolCallStart Type = "tool_call_start"

	// ToolCallResult fires with the tool's result.
	ToolCallResult Type = "tool_call_result"
)

// ModelFallback fires when the agent replaces its primary model with the fallback.
const ModelFallback Type = "model_fallback"

// Event is a single progress notification.
type Event struct {
	Type Type

	// RunID groups the events of one query.
	RunID string

	// Delta is the text fragment for MessageDelta.
	Delta string

	// Response is the model response for StepEnd and RunEnd.
	Response *ai.Response

	ToolCall   *ai.ToolCall
	ToolResult *ai.ToolResult

	// Step is the 1-indexed tool loop step.
	Step int

	// Model is the active model identifier. For ModelFallback, From holds the replaced one.
	Model string
	From  string

	// Attempt is the 0-indexed attempt that triggered a ModelFallback.
	Attempt int

	Error error

	Timestamp time.Time
}

// Emit sends an event without blocking. Events are dropped when ch is nil
// or its buffer is full.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
	}
}

// NewChannel creates a buffered event channel.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
