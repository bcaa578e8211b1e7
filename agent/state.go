package agent

import (
	"github.com/spetersoncode/aiagent/model"
)

// Stage is the agent's position in the fallback state machine.
// The only transition is StagePrimary to StageFallback.
type Stage int

const (
	StagePrimary Stage = iota
	StageFallback
)

// String returns "primary" or "fallback".
func (s Stage) String() string {
	if s == StageFallback {
		return "fallback"
	}
	return "primary"
}

// state is replaced as a whole, never mutated.
type state struct {
	handle *model.Handle
	stage  Stage
}
