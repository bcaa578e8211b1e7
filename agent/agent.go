package agent

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	ai "github.com/spetersoncode/aiagent"
	"github.com/spetersoncode/aiagent/event"
	"github.com/spetersoncode/aiagent/model"
	"github.com/spetersoncode/aiagent/retry"
	"github.com/spetersoncode/aiagent/tool"
)

// Agent answers prompts with a selected model, running requested tools and
// switching to the fallback model when the primary one is rate limited.
// It is safe for concurrent use; a fallback switch made by one call is seen by all later calls.
type Agent struct {
	cfg      Config
	selector *model.Selector
	tools    *tool.Registry
	prompt   *promptLoader

	logger      zerolog.Logger
	events      chan<- event.Event
	retry       retry.Config
	chatOptions []ai.Option

	state atomic.Pointer[state]
}

// New validates cfg, merges the reserved tools with cfg.Tools and selects the primary model.
func New(ctx context.Context, cfg Config, opts ...Option) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("agent: new: %w", err)
	}
	o := applyOptions(opts...)

	tools, err := tool.Union(tool.DefaultsWithClock(o.clock), cfg.Tools)
	if err != nil {
		return nil, fmt.Errorf("agent: new: %w", err)
	}

	selector := o.selector
	if selector == nil {
		selector, err = model.NewSelector(cfg.Endpoint, cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("agent: new: %w", err)
		}
	}

	handle, err := selector.Select(ctx, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("agent: new: %w", err)
	}

	a := &Agent{
		cfg:         cfg,
		selector:    selector,
		tools:       tools,
		prompt:      &promptLoader{source: cfg.SystemPrompt},
		logger:      o.logger.With().Str("component", "agent").Logger(),
		events:      o.events,
		retry:       o.retry,
		chatOptions: o.chatOptions,
	}
	a.state.Store(&state{handle: handle, stage: StagePrimary})
	return a, nil
}

// Model returns the identifier of the active model.
func (a *Agent) Model() string {
	return a.state.Load().handle.ID
}

// Stage reports whether the agent still uses its primary model.
func (a *Agent) Stage() Stage {
	return a.state.Load().stage
}

// Tools returns the tools offered to the model, reserved tools included.
func (a *Agent) Tools() []ai.Tool {
	return a.tools.Tools()
}

// maxSteps returns the tool loop budget; zero is unbounded.
func (a *Agent) maxSteps() int {
	if a.cfg.MaxSteps > 0 {
		return a.cfg.MaxSteps
	}
	if a.tools.Len() > 0 {
		return 0
	}
	return 1
}

// requestOptions builds the provider options shared by every step of a call.
func (a *Agent) requestOptions(system string, extra ...ai.Option) []ai.Option {
	opts := make([]ai.Option, 0, len(a.chatOptions)+len(extra)+2)
	if system != "" {
		opts = append(opts, ai.WithSystem(system))
	}
	opts = append(opts, a.chatOptions...)
	return append(opts, extra...)
}
