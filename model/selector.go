package model

import (
	"context"
	"fmt"

	ai "github.com/spetersoncode/aiagent"
	"github.com/spetersoncode/aiagent/internal/provider/google"
	"github.com/spetersoncode/aiagent/internal/provider/openai"
)

// Handle is a provider client bound to one model identifier.
// Handles are immutable once built.
type Handle struct {
	ID       string
	Family   Family
	Provider ai.ChatProvider
}

// String returns the bound identifier.
func (h *Handle) String() string {
	return h.ID
}

// Factory builds a provider client for a family and bound identifier.
type Factory func(ctx context.Context, family Family, endpoint, apiKey, id string) (ai.ChatProvider, error)

// Selector turns model identifiers into handles.
type Selector struct {
	endpoint string
	apiKey   string
	factory  Factory
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithFactory replaces the SDK-backed provider factory.
func WithFactory(f Factory) SelectorOption {
	return func(s *Selector) {
		s.factory = f
	}
}

// NewSelector creates a selector for the given endpoint and credential.
// Both are required; a *ai.ConfigError names each one that is empty.
func NewSelector(endpoint, apiKey string, opts ...SelectorOption) (*Selector, error) {
	var missing []string
	if endpoint == "" {
		missing = append(missing, "endpoint")
	}
	if apiKey == "" {
		missing = append(missing, "apiKey")
	}
	if len(missing) > 0 {
		return nil, &ai.ConfigError{Fields: missing, Reason: "must not be empty"}
	}

	s := &Selector{endpoint: endpoint, apiKey: apiKey, factory: DefaultFactory}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Select classifies id and binds a client to the resulting identifier.
func (s *Selector) Select(ctx context.Context, id string) (*Handle, error) {
	family, bound := Classify(id)
	p, err := s.factory(ctx, family, s.endpoint, s.apiKey, bound)
	if err != nil {
		return nil, fmt.Errorf("model: select %s: %w", bound, err)
	}
	return &Handle{ID: bound, Family: family, Provider: p}, nil
}

// DefaultFactory builds the Gemini or OpenAI adapter for the family.
func DefaultFactory(ctx context.Context, family Family, endpoint, apiKey, id string) (ai.ChatProvider, error) {
	switch family {
	case FamilyGoogle:
		return google.New(ctx, apiKey, endpoint, id)
	default:
		return openai.New(apiKey, endpoint, id), nil
	}
}
