package aiagent

import "encoding/json"

// ResponseSchema requests structured JSON output matching a JSON Schema.
type ResponseSchema struct {
	// Name identifies the schema. Providers that require a name get "response_schema" when empty.
	Name        string
	Description string
	// Schema is a JSON Schema object describing the expected output.
	Schema json.RawMessage
}

// Options contains configuration for a chat request.
type Options struct {
	Model          string
	System         string
	MaxTokens      int
	Temperature    *float64
	Tools          []Tool
	ToolChoice     ToolChoice
	ResponseSchema *ResponseSchema
}

// Option is a functional option for configuring chat requests.
type Option func(*Options)

// WithModel sets the model to use for the request.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithSystem sets the system instruction sent ahead of the conversation.
func WithSystem(system string) Option {
	return func(o *Options) {
		o.System = system
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature (0.0 to 2.0).
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// WithTools offers tools to the model.
func WithTools(tools []Tool) Option {
	return func(o *Options) {
		o.Tools = tools
	}
}

// WithToolChoice controls whether the model may or must call tools.
func WithToolChoice(choice ToolChoice) Option {
	return func(o *Options) {
		o.ToolChoice = choice
	}
}

// WithResponseSchema asks the provider for JSON output matching schema.
func WithResponseSchema(schema ResponseSchema) Option {
	return func(o *Options) {
		o.ResponseSchema = &schema
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
