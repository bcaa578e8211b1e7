package agent

import (
	"fmt"

	ai "github.com/spetersoncode/aiagent"
	"github.com/spetersoncode/aiagent/tool"
)

// StreamMethod selects buffered or streaming generation.
type StreamMethod string

const (
	// StreamText returns the complete text once generation finishes (default).
	StreamText StreamMethod = "text"
	// StreamStream returns text fragments as the model produces them.
	StreamStream StreamMethod = "stream"
)

// Valid reports whether m is a known stream method. The empty value is valid
// and means "use the default".
func (m StreamMethod) Valid() bool {
	return m == "" || m == StreamText || m == StreamStream
}

// SystemPrompt is the source of the agent's system instruction.
// At most one of Text and File may be set.
type SystemPrompt struct {
	Text string
	// File is read on first generation and cached for the agent's lifetime.
	File string
}

// IsZero reports whether no system prompt is configured.
func (s SystemPrompt) IsZero() bool {
	return s.Text == "" && s.File == ""
}

// Config describes an agent. It is copied at construction and never mutated.
type Config struct {
	// Endpoint is the base URL used for every provider. Required.
	Endpoint string
	// APIKey is the credential sent to the provider. Required.
	APIKey string
	// Model is the primary model identifier. Empty selects the default model.
	Model string
	// FallbackModel replaces Model after a rate-limit or quota failure.
	// Empty disables the fallback.
	FallbackModel string

	SystemPrompt SystemPrompt

	// Tools are offered to the model in addition to the reserved tools.
	Tools *tool.Registry

	// StreamMethod is the default for StartChat. Empty means StreamText.
	StreamMethod StreamMethod

	// MaxSteps bounds the tool loop. Zero means unbounded when tools are
	// offered and a single step otherwise.
	MaxSteps int

	// StructuredContent sends plain prompts as a single text part instead of a string.
	StructuredContent bool
}

// Validate checks the invariants required before any model is selected.
func (c Config) Validate() error {
	var missing []string
	if c.Endpoint == "" {
		missing = append(missing, "endpoint")
	}
	if c.APIKey == "" {
		missing = append(missing, "apiKey")
	}
	if len(missing) > 0 {
		return &ai.ConfigError{Fields: missing, Reason: "must not be empty"}
	}

	if c.SystemPrompt.Text != "" && c.SystemPrompt.File != "" {
		return &ai.ConfigError{
			Fields: []string{"systemPrompt.text", "systemPrompt.file"},
			Reason: "only one system prompt source may be set",
		}
	}

	if !c.StreamMethod.Valid() {
		return &ai.ConfigError{
			Fields: []string{"streamMethod"},
			Reason: fmt.Sprintf("unknown stream method %q", c.StreamMethod),
		}
	}

	if c.MaxSteps < 0 {
		return &ai.ConfigError{Fields: []string{"maxSteps"}, Reason: "must not be negative"}
	}
	return nil
}

func (c Config) streamMethod() StreamMethod {
	if c.StreamMethod == "" {
		return StreamText
	}
	return c.StreamMethod
}
