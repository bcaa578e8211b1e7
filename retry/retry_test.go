package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	ai "github.com/spetersoncode/aiagent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTransientError simulates a transient network error.
type mockTransientError struct {
	msg string
}

func (e *mockTransientError) Error() string   { return e.msg }
func (e *mockTransientError) Timeout() bool   { return true }
func (e *mockTransientError) Temporary() bool { return true }

var _ net.Error = (*mockTransientError)(nil)

// mockAPIError simulates an SDK error with a status code.
type mockAPIError struct {
	code int
	msg  string
}

func (e *mockAPIError) Error() string   { return e.msg }
func (e *mockAPIError) StatusCode() int { return e.code }

func always(error, int) bool { return true }

func TestConfig(t *testing.T) {
	t.Run("default is one immediate retry", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.Equal(t, 1, cfg.MaxRetries)
		assert.Equal(t, 2, cfg.Attempts())
		assert.Zero(t, cfg.Delay(0))
	})

	t.Run("disabled and negative", func(t *testing.T) {
		assert.Equal(t, 1, Disabled().Attempts())
		assert.Equal(t, 1, Config{MaxRetries: -3}.Attempts())
	})

	t.Run("exponential delay with cap", func(t *testing.T) {
		cfg := Config{InitialDelay: 10 * time.Millisecond, MaxDelay: 30 * time.Millisecond, Multiplier: 2}
		assert.Equal(t, 10*time.Millisecond, cfg.Delay(0))
		assert.Equal(t, 20*time.Millisecond, cfg.Delay(1))
		assert.Equal(t, 30*time.Millisecond, cfg.Delay(5))
	})

	t.Run("jitter stays in range", func(t *testing.T) {
		cfg := Config{InitialDelay: 100 * time.Millisecond, Multiplier: 1, Jitter: 0.1}
		for range 20 {
			d := cfg.Delay(0)
			assert.GreaterOrEqual(t, d, 90*time.Millisecond)
			assert.LessOrEqual(t, d, 110*time.Millisecond)
		}
	})
}

func TestDo(t *testing.T) {
	ctx := context.Background()

	t.Run("success on first attempt", func(t *testing.T) {
		calls := 0
		got, err := Do(ctx, DefaultConfig(), always, func(context.Context, int) (string, error) {
			calls++
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops at the ceiling and returns the last error", func(t *testing.T) {
		var seen []int
		_, err := Do(ctx, DefaultConfig(), always, func(_ context.Context, attempt int) (int, error) {
			seen = append(seen, attempt)
			return 0, fmt.Errorf("attempt %d", attempt)
		})
		assert.EqualError(t, err, "attempt 1")
		assert.Equal(t, []int{0, 1}, seen)
	})

	t.Run("declined errors are returned unchanged", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		_, err := Do(ctx, Config{MaxRetries: 5}, func(error, int) bool { return false }, func(context.Context, int) (int, error) {
			calls++
			return 0, boom
		})
		assert.Same(t, boom, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("shouldRetry is not consulted after the last attempt", func(t *testing.T) {
		consulted := 0
		_, _ = Do(ctx, DefaultConfig(), func(error, int) bool { consulted++; return true }, func(context.Context, int) (int, error) {
			return 0, errors.New("x")
		})
		assert.Equal(t, 1, consulted)
	})

	t.Run("respects cancellation during backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cfg := Config{MaxRetries: 3, InitialDelay: time.Second}
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		_, err := Do(ctx, cfg, always, func(context.Context, int) (int, error) {
			return 0, errors.New("x")
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDoTransient(t *testing.T) {
	calls := 0
	got, err := DoTransient(context.Background(), Config{MaxRetries: 2}, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &mockTransientError{msg: "i/o timeout"}
		}
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", got)
	assert.Equal(t, 3, calls)

	calls = 0
	_, err = DoTransient(context.Background(), Config{MaxRetries: 2}, func(context.Context) (string, error) {
		calls++
		return "", errors.New("permission denied")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"typed rate limit", ai.NewProviderError("slow down", 429, ai.KindRateLimit, 0, nil), true},
		{"typed quota", ai.NewProviderError("out of credit", 429, ai.KindQuota, 0, nil), true},
		{"typed server error mentioning quota", ai.NewProviderError("quota service down", 503, ai.KindServer, 0, nil), false},
		{"typed auth", ai.NewPermanentError("bad key", 401, nil), false},
		{"typed unknown with 429", &ai.Error{Msg: "x", Code: 429}, true},
		{"typed unknown matched by text", &ai.Error{Msg: "Rate limit reached"}, true},
		{"wrapped typed", fmt.Errorf("agent: %w", ai.NewProviderError("x", 429, ai.KindRateLimit, 0, nil)), true},
		{"status coder 429", &mockAPIError{code: 429, msg: "nope"}, true},
		{"status coder 500", &mockAPIError{code: 500, msg: "nope"}, false},
		{"untyped Rate limit", errors.New("Rate limit exceeded"), true},
		{"untyped rate limit lower", errors.New("openai: rate limit reached for gpt-4o"), true},
		{"untyped QUOTA", errors.New("You exceeded your current QUOTA"), true},
		{"untyped unrelated", errors.New("internal server error"), false},
		{"untyped too many requests", errors.New("429 Too Many Requests"), false},
		{"untyped ratelimit without space", errors.New("ratelimited"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRateLimited(tt.err))
		})
	}
}

func TestMatchRateLimitText(t *testing.T) {
	assert.True(t, MatchRateLimitText("Rate Limit"))
	assert.True(t, MatchRateLimitText("daily quota exceeded"))
	assert.False(t, MatchRateLimitText(""))
	assert.False(t, MatchRateLimitText("connection reset"))
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"categorized transient", ai.NewTransientError("x", 503, nil), true},
		{"categorized permanent", ai.NewPermanentError("x", 401, nil), false},
		{"status 502", &mockAPIError{code: 502, msg: "x"}, true},
		{"status 404", &mockAPIError{code: 404, msg: "x"}, false},
		{"net timeout", &mockTransientError{msg: "x"}, true},
		{"connection reset errno", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"message pattern", errors.New("upstream: bad gateway"), true},
		{"plain", errors.New("invalid argument"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
