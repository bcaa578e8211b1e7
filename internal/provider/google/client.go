package google

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"strings"

	ai "github.com/spetersoncode/aiagent"
	"google.golang.org/genai"
)

// Client wraps the Google GenAI SDK to implement ai.ChatProvider.
type Client struct {
	client *genai.Client
	model  string
}

type clientConfig struct {
	httpClient *http.Client
}

// ClientOption configures the Google client.
type ClientOption func(*clientConfig)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cfg *clientConfig) {
		cfg.httpClient = c
	}
}

// New creates a Gemini API client bound to model. A non-empty baseURL replaces
// the default Gemini endpoint.
func New(ctx context.Context, apiKey, baseURL, model string, opts ...ClientOption) (*Client, error) {
	cfg := clientConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.httpClient,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Client{client: client, model: model}, nil
}

// Model returns the bound model identifier.
func (c *Client) Model() string {
	return c.model
}

func (c *Client) prepare(messages []ai.Message, opts []ai.Option) (string, []*genai.Content, *genai.GenerateContentConfig, error) {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	contents, system, err := convertMessages(options.System, messages)
	if err != nil {
		return "", nil, nil, err
	}

	config := &genai.GenerateContentConfig{SystemInstruction: system}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*options.Temperature))
	}
	if len(options.Tools) > 0 {
		config.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			config.ToolConfig = convertToolChoice(options.ToolChoice)
		}
	}
	if options.ResponseSchema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = convertSchema(options.ResponseSchema.Schema)
	}
	return model, contents, config, nil
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	model, contents, config, err := c.prepare(messages, opts)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, wrapError(err)
	}
	if err := blocked(resp); err != nil {
		return nil, err
	}

	var acc accumulator
	acc.add(resp)
	return acc.response(model), nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
// The stream is read up to the first text delta before returning, so a request
// that fails outright is reported as the returned error rather than on the channel.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	model, contents, config, err := c.prepare(messages, opts)
	if err != nil {
		return nil, err
	}

	next, stop := iter.Pull2(c.client.Models.GenerateContentStream(ctx, model, contents, config))

	var acc accumulator
	var pending []string
	for len(pending) == 0 {
		resp, err, ok := next()
		if !ok {
			break
		}
		if err == nil {
			err = blocked(resp)
		}
		if err != nil {
			stop()
			return nil, wrapError(err)
		}
		pending = acc.add(resp)
	}

	ch := make(chan ai.StreamEvent)
	go func() {
		defer close(ch)
		defer stop()

		send := func(ev ai.StreamEvent) bool {
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for _, delta := range pending {
			if !send(ai.StreamEvent{Delta: delta}) {
				return
			}
		}
		for {
			resp, err, ok := next()
			if !ok {
				break
			}
			if err == nil {
				err = blocked(resp)
			}
			if err != nil {
				send(ai.StreamEvent{Err: wrapError(err)})
				return
			}
			for _, delta := range acc.add(resp) {
				if !send(ai.StreamEvent{Delta: delta}) {
					return
				}
			}
		}
		send(ai.StreamEvent{Done: true, Response: acc.response(model)})
	}()

	return ch, nil
}

func blocked(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return errors.New("google: empty response")
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return &BlockedError{Reason: string(resp.PromptFeedback.BlockReason)}
	}
	return nil
}

// accumulator folds response chunks into a single response.
type accumulator struct {
	content      strings.Builder
	parts        []*genai.Part
	finishReason string
	modelVersion string
	usage        ai.Usage
}

// add records a chunk and returns its text deltas.
func (a *accumulator) add(resp *genai.GenerateContentResponse) []string {
	var deltas []string
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part == nil {
				continue
			}
			a.parts = append(a.parts, part)
			if part.Text != "" && !part.Thought {
				a.content.WriteString(part.Text)
				deltas = append(deltas, part.Text)
			}
		}
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
		a.finishReason = string(resp.Candidates[0].FinishReason)
	}
	if resp.UsageMetadata != nil {
		a.usage = ai.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	if resp.ModelVersion != "" {
		a.modelVersion = resp.ModelVersion
	}
	return deltas
}

func (a *accumulator) response(model string) *ai.Response {
	if a.modelVersion != "" {
		model = a.modelVersion
	}
	return &ai.Response{
		Content:      a.content.String(),
		FinishReason: a.finishReason,
		Model:        model,
		Usage:        a.usage,
		ToolCalls:    extractToolCalls(a.parts),
	}
}

var _ ai.ChatProvider = (*Client)(nil)
