package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	ai "github.com/spetersoncode/aiagent"
	"github.com/spetersoncode/aiagent/digest"
	"github.com/spetersoncode/aiagent/event"
	"github.com/spetersoncode/aiagent/model"
	"github.com/xeipuuv/gojsonschema"
)

// QueryParams is the input of a single generation.
type QueryParams struct {
	// Session is the prior conversation, oldest first.
	Session []ai.Message
	// Prompt is the new user message. Required.
	Prompt string
	// Media is an optional inline attachment sent with the prompt.
	Media *ai.Media
}

// ChatBuilder holds an assembled conversation ready to be generated.
// Each Generate method is one independent call and may be invoked repeatedly.
type ChatBuilder struct {
	agent    *Agent
	messages []ai.Message
}

// Query validates params and assembles the conversation. No network call is made.
func (a *Agent) Query(params QueryParams) (*ChatBuilder, error) {
	messages, err := AssembleMessages(params.Session, params.Prompt, params.Media, a.cfg.StructuredContent)
	if err != nil {
		return nil, fmt.Errorf("agent: query: %w", err)
	}
	return &ChatBuilder{agent: a, messages: messages}, nil
}

// Messages returns a copy of the assembled conversation.
func (b *ChatBuilder) Messages() []ai.Message {
	return slices.Clone(b.messages)
}

// GenerateText runs buffered generation, executing tools until the model answers.
func (b *ChatBuilder) GenerateText(ctx context.Context) (*TextResult, error) {
	res, err := dispatch(ctx, b.agent, func(ctx context.Context, r *run) (*TextResult, error) {
		return r.generateText(ctx, b.messages)
	})
	if err != nil {
		return nil, fmt.Errorf("agent: generate text: %w", err)
	}
	return res, nil
}

// GenerateStream runs streaming generation. Errors raised before the first
// fragment are returned here and are subject to the model fallback.
func (b *ChatBuilder) GenerateStream(ctx context.Context) (*StreamResult, error) {
	res, err := dispatch(ctx, b.agent, func(ctx context.Context, r *run) (*StreamResult, error) {
		return r.generateStream(ctx, b.messages)
	})
	if err != nil {
		return nil, fmt.Errorf("agent: generate stream: %w", err)
	}
	return res, nil
}

// ObjectResult is the outcome of structured generation.
type ObjectResult struct {
	// Raw is the JSON document produced by the model.
	Raw      json.RawMessage
	Response *ai.Response
}

// GenerateObject asks the model for JSON matching schema, validates it and
// decodes it into out when out is non-nil. Tools are not offered.
func (b *ChatBuilder) GenerateObject(ctx context.Context, schema ai.ResponseSchema, out any) (*ObjectResult, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema.Schema))
	if err != nil {
		return nil, fmt.Errorf("agent: generate object: %w", &ai.ValidationError{Field: "schema", Reason: err.Error()})
	}

	res, err := dispatch(ctx, b.agent, func(ctx context.Context, r *run) (*ObjectResult, error) {
		opts := append(slices.Clone(r.opts), ai.WithResponseSchema(schema))
		resp, err := r.handle.Provider.Chat(ctx, b.messages, opts...)
		if err != nil {
			return nil, err
		}
		r.emit(event.Event{Type: event.StepEnd, Step: 1, Response: resp})
		return &ObjectResult{Raw: json.RawMessage(resp.Content), Response: resp}, nil
	}, withoutTools())
	if err != nil {
		return nil, fmt.Errorf("agent: generate object: %w", err)
	}

	if err := checkObject(compiled, schema.Name, res.Raw); err != nil {
		return nil, fmt.Errorf("agent: generate object: %w", err)
	}
	if out != nil {
		if err := json.Unmarshal(res.Raw, out); err != nil {
			return nil, fmt.Errorf("agent: generate object: decode: %w", err)
		}
	}
	return res, nil
}

func checkObject(schema *gojsonschema.Schema, name string, raw json.RawMessage) error {
	if !json.Valid(raw) {
		return &SchemaMismatchError{Schema: name, Problems: []string{"output is not valid JSON"}}
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &SchemaMismatchError{Schema: name, Problems: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return &SchemaMismatchError{Schema: name, Problems: problems}
}

// ChatParams is the input of StartChat.
type ChatParams struct {
	// StreamMethod overrides the agent's default for this call.
	StreamMethod StreamMethod
	Session      []ai.Message
	Prompt       string
	Media        *ai.Media
}

// ChatResult holds exactly one of Text and Stream, according to Method.
type ChatResult struct {
	Method StreamMethod
	Text   *TextResult
	Stream *StreamResult
}

// StartChat assembles the conversation and generates with the requested stream method.
func (a *Agent) StartChat(ctx context.Context, params ChatParams) (*ChatResult, error) {
	if !params.StreamMethod.Valid() {
		return nil, fmt.Errorf("agent: start chat: %w", &ai.ValidationError{
			Field:  "streamMethod",
			Reason: fmt.Sprintf("unknown stream method %q", params.StreamMethod),
		})
	}
	method := params.StreamMethod
	if method == "" {
		method = a.cfg.streamMethod()
	}

	builder, err := a.Query(QueryParams{Session: params.Session, Prompt: params.Prompt, Media: params.Media})
	if err != nil {
		return nil, err
	}

	result := &ChatResult{Method: method}
	if method == StreamStream {
		result.Stream, err = builder.GenerateStream(ctx)
	} else {
		result.Text, err = builder.GenerateText(ctx)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

type dispatchOptions struct {
	noTools bool
}

type dispatchOption func(*dispatchOptions)

func withoutTools() dispatchOption {
	return func(o *dispatchOptions) {
		o.noTools = true
	}
}

// dispatch resolves the system prompt, then runs fn under the fallback
// controller, reporting run events around it.
func dispatch[T any](ctx context.Context, a *Agent, fn func(ctx context.Context, r *run) (T, error), opts ...dispatchOption) (T, error) {
	var zero T
	var do dispatchOptions
	for _, opt := range opts {
		opt(&do)
	}

	runID := digest.UUID()
	event.Emit(a.events, event.Event{Type: event.RunStart, RunID: runID, Model: a.Model()})

	system, err := a.prompt.load()
	if err != nil {
		event.Emit(a.events, event.Event{Type: event.RunError, RunID: runID, Error: err})
		return zero, err
	}

	var extra []ai.Option
	if !do.noTools {
		extra = append(extra, ai.WithTools(a.tools.Tools()))
	}
	reqOpts := a.requestOptions(system, extra...)

	res, err := withFallback(ctx, a, runID, func(ctx context.Context, h *model.Handle) (T, error) {
		return fn(ctx, a.newRun(h, runID, reqOpts))
	})
	if err != nil {
		event.Emit(a.events, event.Event{Type: event.RunError, RunID: runID, Model: a.Model(), Error: err})
		return zero, err
	}
	event.Emit(a.events, event.Event{Type: event.RunEnd, RunID: runID, Model: a.Model()})
	return res, nil
}
