package agent

import (
	"github.com/rs/zerolog"
	ai "github.com/spetersoncode/aiagent"
	"github.com/spetersoncode/aiagent/clock"
	"github.com/spetersoncode/aiagent/event"
	"github.com/spetersoncode/aiagent/model"
	"github.com/spetersoncode/aiagent/retry"
)

// options contains the construction-time collaborators of an agent.
type options struct {
	logger      zerolog.Logger
	events      chan<- event.Event
	retry       retry.Config
	selector    *model.Selector
	clock       clock.Clock
	chatOptions []ai.Option
}

// Option configures an Agent.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithEvents sends progress events to ch. Sends never block; events are
// dropped when the buffer is full.
func WithEvents(ch chan<- event.Event) Option {
	return func(o *options) {
		o.events = ch
	}
}

// WithRetry sets the retry ceiling and backoff used for fallback retries.
// The default is one immediate retry.
func WithRetry(cfg retry.Config) Option {
	return func(o *options) {
		o.retry = cfg
	}
}

// WithSelector replaces the selector built from the config's endpoint and key.
func WithSelector(s *model.Selector) Option {
	return func(o *options) {
		o.selector = s
	}
}

// WithClock sets the clock used by the reserved getCurrentTime tool.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithChatOptions passes options through to every provider call.
func WithChatOptions(opts ...ai.Option) Option {
	return func(o *options) {
		o.chatOptions = append(o.chatOptions, opts...)
	}
}

// WithMaxTokens is a convenience option to set max tokens for chat calls.
func WithMaxTokens(n int) Option {
	return WithChatOptions(ai.WithMaxTokens(n))
}

// WithTemperature is a convenience option to set temperature for chat calls.
func WithTemperature(t float64) Option {
	return WithChatOptions(ai.WithTemperature(t))
}

func applyOptions(opts ...Option) *options {
	o := &options{
		logger: zerolog.Nop(),
		retry:  retry.DefaultConfig(),
		clock:  clock.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
