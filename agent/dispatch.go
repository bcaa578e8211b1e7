package agent

import (
	"context"
	"slices"

	ai "github.com/spetersoncode/aiagent"
	"github.com/spetersoncode/aiagent/event"
	"github.com/spetersoncode/aiagent/model"
)

// TextResult is the outcome of buffered generation.
type TextResult struct {
	// Text is the final response text.
	Text string
	// Response is the last model response with usage summed across steps.
	Response *ai.Response
	// Steps is the number of model calls made.
	Steps int
}

// StreamResult is the outcome of streaming generation.
type StreamResult struct {
	// TextStream yields text fragments in order and is closed when generation ends.
	TextStream <-chan string

	done     chan struct{}
	response *ai.Response
	err      error
}

// Response waits for generation to finish and returns the final response.
// Unread fragments on TextStream are discarded, so call it after consuming
// the stream or instead of it.
func (s *StreamResult) Response() (*ai.Response, error) {
	for range s.TextStream {
	}
	<-s.done
	return s.response, s.err
}

// run carries the per-call context of one dispatch against one model.
type run struct {
	agent  *Agent
	handle *model.Handle
	id     string
	opts   []ai.Option
}

func (a *Agent) newRun(h *model.Handle, runID string, opts []ai.Option) *run {
	return &run{agent: a, handle: h, id: runID, opts: opts}
}

func (r *run) emit(e event.Event) {
	e.RunID = r.id
	if e.Model == "" {
		e.Model = r.handle.ID
	}
	event.Emit(r.agent.events, e)
}

// finished reports whether the loop stops after step with resp.
func (r *run) finished(step int, resp *ai.Response) bool {
	if len(resp.ToolCalls) == 0 {
		return true
	}
	limit := r.agent.maxSteps()
	return limit > 0 && step >= limit
}

// generateText runs the buffered tool loop.
func (r *run) generateText(ctx context.Context, messages []ai.Message) (*TextResult, error) {
	history := slices.Clone(messages)
	var usage ai.Usage

	for step := 1; ; step++ {
		r.emit(event.Event{Type: event.StepStart, Step: step})

		resp, err := r.handle.Provider.Chat(ctx, history, r.opts...)
		if err != nil {
			return nil, err
		}
		usage = usage.Add(resp.Usage)
		r.emit(event.Event{Type: event.StepEnd, Step: step, Response: resp})

		if r.finished(step, resp) {
			final := *resp
			final.Usage = usage
			return &TextResult{Text: final.Content, Response: &final, Steps: step}, nil
		}
		history = r.runTools(ctx, history, resp, step)
	}
}

// generateStream starts the streaming tool loop. A failure before the first
// event of the first step is returned directly; later failures are reported
// by StreamResult.Response.
func (r *run) generateStream(ctx context.Context, messages []ai.Message) (*StreamResult, error) {
	r.emit(event.Event{Type: event.StepStart, Step: 1})

	ch, err := r.handle.Provider.ChatStream(ctx, messages, r.opts...)
	if err != nil {
		return nil, err
	}
	first, ok := <-ch
	if !ok {
		return nil, ErrEmptyStream
	}
	if first.Err != nil {
		return nil, first.Err
	}

	text := make(chan string)
	res := &StreamResult{TextStream: text, done: make(chan struct{})}
	go func() {
		defer close(res.done)
		defer close(text)
		res.response, res.err = r.streamLoop(ctx, messages, ch, &first, text)
	}()
	return res, nil
}

func (r *run) streamLoop(ctx context.Context, messages []ai.Message, ch <-chan ai.StreamEvent, first *ai.StreamEvent, text chan<- string) (*ai.Response, error) {
	history := slices.Clone(messages)
	var usage ai.Usage

	for step := 1; ; step++ {
		if step > 1 {
			r.emit(event.Event{Type: event.StepStart, Step: step})
			var err error
			ch, err = r.handle.Provider.ChatStream(ctx, history, r.opts...)
			if err != nil {
				return nil, err
			}
			first = nil
		}

		resp, err := r.forward(ctx, ch, first, step, text)
		if err != nil {
			return nil, err
		}
		usage = usage.Add(resp.Usage)
		r.emit(event.Event{Type: event.StepEnd, Step: step, Response: resp})

		if r.finished(step, resp) {
			final := *resp
			final.Usage = usage
			return &final, nil
		}
		history = r.runTools(ctx, history, resp, step)
	}
}

// forward relays one step's text fragments and returns its final response.
func (r *run) forward(ctx context.Context, ch <-chan ai.StreamEvent, pending *ai.StreamEvent, step int, text chan<- string) (*ai.Response, error) {
	var resp *ai.Response

	handle := func(ev ai.StreamEvent) error {
		if ev.Err != nil {
			return ev.Err
		}
		if ev.Delta != "" {
			select {
			case text <- ev.Delta:
			case <-ctx.Done():
				return ctx.Err()
			}
			r.emit(event.Event{Type: event.MessageDelta, Step: step, Delta: ev.Delta})
		}
		if ev.Done && ev.Response != nil {
			resp = ev.Response
		}
		return nil
	}

	if pending != nil {
		if err := handle(*pending); err != nil {
			return nil, err
		}
	}
	for ev := range ch {
		if err := handle(ev); err != nil {
			return nil, err
		}
	}

	if resp == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrEmptyStream
	}
	return resp, nil
}

// runTools executes the response's tool calls in order and returns history
// extended with the assistant turn and the tool results.
func (r *run) runTools(ctx context.Context, history []ai.Message, resp *ai.Response, step int) []ai.Message {
	results := make([]ai.ToolResult, 0, len(resp.ToolCalls))
	for _, tc := range resp.ToolCalls {
		r.emit(event.Event{Type: event.ToolCallStart, Step: step, ToolCall: &tc})

		result, err := r.agent.tools.Execute(ctx, tc)
		if err != nil {
			result = ai.ToolResult{ToolCallID: tc.ID, Name: tc.Name, Content: err.Error(), IsError: true}
		}
		r.agent.logger.Debug().
			Str("tool", tc.Name).
			Str("callId", tc.ID).
			Bool("isError", result.IsError).
			Int("step", step).
			Msg("tool executed")

		r.emit(event.Event{Type: event.ToolCallResult, Step: step, ToolCall: &tc, ToolResult: &result})
		results = append(results, result)
	}

	return append(history,
		ai.Message{Role: ai.RoleAssistant, Content: resp.Content, ToolCalls: resp.ToolCalls},
		ai.NewToolResultMessage(results...),
	)
}
