// Package retry provides a bounded retry loop and the error classification
// used to decide whether a failed model call may be re-issued.
package retry

import (
	"math"
	"math/rand"
	"time"
)

// DefaultMaxRetries is the retry ceiling used when none is configured.
const DefaultMaxRetries = 1

// Config holds retry configuration parameters.
type Config struct {
	// MaxRetries is the number of retries after the initial attempt (default: 1).
	// Zero disables retrying.
	MaxRetries int

	// InitialDelay is the wait before the first retry. Zero retries immediately.
	InitialDelay time.Duration

	// MaxDelay caps the backoff. Zero means no cap.
	MaxDelay time.Duration

	// Multiplier is the exponential backoff multiplier (values below 1 are treated as 1).
	Multiplier float64

	// Jitter adds randomness to the delay: it is multiplied by (1 + random(-jitter, +jitter)).
	Jitter float64
}

// DefaultConfig returns one immediate retry.
func DefaultConfig() Config {
	return Config{MaxRetries: DefaultMaxRetries, Multiplier: 2.0}
}

// Disabled returns a configuration that never retries.
func Disabled() Config {
	return Config{MaxRetries: 0}
}

// Attempts returns the total number of calls the config permits.
func (c Config) Attempts() int {
	if c.MaxRetries < 0 {
		return 1
	}
	return c.MaxRetries + 1
}

// Delay calculates the wait before retry number attempt (0-indexed).
// Formula: min(maxDelay, initialDelay * multiplier^attempt) * (1 + jitter)
func (c Config) Delay(attempt int) time.Duration {
	if c.InitialDelay <= 0 {
		return 0
	}
	if attempt < 0 {
		attempt = 0
	}
	mult := c.Multiplier
	if mult < 1 {
		mult = 1
	}

	delay := float64(c.InitialDelay) * math.Pow(mult, float64(attempt))
	if c.MaxDelay > 0 && delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}
	if c.Jitter > 0 {
		delay *= 1.0 + (rand.Float64()*2-1)*c.Jitter
	}
	return time.Duration(delay)
}
