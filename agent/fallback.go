package agent

import (
	"context"

	"github.com/spetersoncode/aiagent/event"
	"github.com/spetersoncode/aiagent/model"
	"github.com/spetersoncode/aiagent/retry"
)

// withFallback runs fn against the active model. A rate-limit or quota
// failure switches the agent to the fallback model and re-issues fn while
// the retry budget lasts. Any other failure is returned unchanged.
func withFallback[T any](ctx context.Context, a *Agent, runID string, fn func(ctx context.Context, h *model.Handle) (T, error)) (T, error) {
	shouldRetry := func(err error, attempt int) bool {
		return a.prepareFallback(ctx, runID, err, attempt)
	}

	result, err := retry.Do(ctx, a.retry, shouldRetry, func(ctx context.Context, attempt int) (T, error) {
		return fn(ctx, a.state.Load().handle)
	})
	if err != nil && a.cfg.FallbackModel == "" && retry.IsRateLimited(err) {
		a.logger.Warn().
			Err(err).
			Str("model", a.Model()).
			Msg("rate limited and no fallback model is configured")
	}
	return result, err
}

// prepareFallback decides whether err warrants another attempt and, on the
// first such failure, installs the fallback model.
func (a *Agent) prepareFallback(ctx context.Context, runID string, err error, attempt int) bool {
	if a.cfg.FallbackModel == "" || !retry.IsRateLimited(err) {
		return false
	}

	cur := a.state.Load()
	if cur.stage == StageFallback {
		a.logger.Warn().
			Err(err).
			Str("model", cur.handle.ID).
			Int("attempt", attempt).
			Msg("fallback model rate limited, retrying")
		return true
	}

	handle, selErr := a.selector.Select(ctx, a.cfg.FallbackModel)
	if selErr != nil {
		a.logger.Error().Err(selErr).Str("to", a.cfg.FallbackModel).Msg("select fallback model")
		return false
	}

	next := &state{handle: handle, stage: StageFallback}
	if !a.state.CompareAndSwap(cur, next) {
		// Another call switched first; its handle is used for the retry.
		return true
	}

	a.logger.Warn().
		Err(err).
		Str("from", cur.handle.ID).
		Str("to", handle.ID).
		Int("attempt", attempt).
		Msg("rate limited, switching to fallback model")
	event.Emit(a.events, event.Event{
		Type:    event.ModelFallback,
		RunID:   runID,
		From:    cur.handle.ID,
		Model:   handle.ID,
		Attempt: attempt,
		Error:   err,
	})
	return true
}
