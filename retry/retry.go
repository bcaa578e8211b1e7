package retry

import (
	"context"
	"time"
)

// ShouldRetry decides whether a failed attempt is re-issued. attempt is the
// 0-indexed attempt that just failed. It may prepare state for the next
// attempt (for example by switching models) before returning true.
type ShouldRetry func(err error, attempt int) bool

// Do calls fn until it succeeds, shouldRetry declines, the retry budget is
// spent, or ctx is done. The last error is returned unchanged.
func Do[T any](ctx context.Context, cfg Config, shouldRetry ShouldRetry, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T
	attempts := cfg.Attempts()

	for attempt := 0; ; attempt++ {
		result, err := fn(ctx, attempt)
		if err == nil {
			return result, nil
		}
		if attempt+1 >= attempts || !shouldRetry(err, attempt) {
			return zero, err
		}

		if delay := cfg.Delay(attempt); delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		} else if ctx.Err() != nil {
			return zero, ctx.Err()
		}
	}
}

// DoTransient retries fn on transient failures only.
func DoTransient[T any](ctx context.Context, cfg Config, fn func(ctx context.Context) (T, error)) (T, error) {
	return Do(ctx, cfg, func(err error, _ int) bool { return IsTransient(err) },
		func(ctx context.Context, _ int) (T, error) { return fn(ctx) })
}
