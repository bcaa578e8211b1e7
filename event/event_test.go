package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmit(t *testing.T) {
	t.Run("stamps and delivers", func(t *testing.T) {
		ch := NewChannel()
		Emit(ch, Event{Type: RunStart, RunID: "r1"})
		require.Len(t, ch, 1)
		e := <-ch
		assert.Equal(t, RunStart, e.Type)
		assert.Equal(t, "r1", e.RunID)
		assert.False(t, e.Timestamp.IsZero())
	})

	t.Run("drops when full", func(t *testing.T) {
		ch := make(chan Event, 1)
		Emit(ch, Event{Type: StepStart})
		Emit(ch, Event{Type: StepEnd})
		require.Len(t, ch, 1)
		assert.Equal(t, StepStart, (<-ch).Type)
	})

	t.Run("nil channel is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() { Emit(nil, Event{Type: RunEnd}) })
	})
}
