package openai

import (
	"context"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	ai "github.com/spetersoncode/aiagent"
)

// Client wraps the OpenAI SDK to implement ai.ChatProvider.
// It speaks the strict OpenAI chat-completions API against any compatible endpoint.
type Client struct {
	client *openai.Client
	model  string
}

// New creates a client bound to model, talking to the endpoint at baseURL.
// The SDK's own retries are disabled; retrying is the caller's decision.
func New(apiKey, baseURL, model string, opts ...ClientOption) *Client {
	cfg := clientConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	if cfg.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(cfg.httpClient))
	}

	client := openai.NewClient(reqOpts...)
	return &Client{client: &client, model: model}
}

type clientConfig struct {
	httpClient *http.Client
}

// ClientOption configures the OpenAI client.
type ClientOption func(*clientConfig)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cfg *clientConfig) {
		cfg.httpClient = c
	}
}

// Model returns the bound model identifier.
func (c *Client) Model() string {
	return c.model
}

func (c *Client) buildParams(messages []ai.Message, options *ai.Options) openai.ChatCompletionNewParams {
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: convertMessages(options.System, messages),
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}
	if len(options.Tools) > 0 {
		params.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			params.ToolChoice = convertToolChoice(options.ToolChoice)
		}
	}
	if options.ResponseSchema != nil {
		params.ResponseFormat = buildSchemaFormat(options.ResponseSchema)
	}
	return params
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	params := c.buildParams(messages, ai.ApplyOptions(opts...))

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, ai.NewTransientError("openai: response has no choices", 0, nil)
	}

	choice := resp.Choices[0]
	return &ai.Response{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Model:        resp.Model,
		Usage: ai.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
		ToolCalls: extractToolCalls(choice.Message.ToolCalls),
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
// The stream is read up to the first text delta before returning, so a request
// that fails outright is reported as the returned error rather than on the channel.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	params := c.buildParams(messages, ai.ApplyOptions(opts...))
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	var acc openai.ChatCompletionAccumulator

	// Prime the stream until there is text to forward or the stream ends.
	first := ""
	more := false
	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			first = chunk.Choices[0].Delta.Content
			more = true
			break
		}
	}
	if !more {
		if err := stream.Err(); err != nil {
			stream.Close()
			return nil, wrapError(err)
		}
	}

	ch := make(chan ai.StreamEvent)
	go func() {
		defer close(ch)
		defer stream.Close()

		send := func(ev ai.StreamEvent) bool {
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if first != "" && !send(ai.StreamEvent{Delta: first}) {
			return
		}
		for more && stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)
			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				if !send(ai.StreamEvent{Delta: chunk.Choices[0].Delta.Content}) {
					return
				}
			}
		}
		if err := stream.Err(); err != nil {
			send(ai.StreamEvent{Err: wrapError(err)})
			return
		}

		resp := &ai.Response{
			Model: acc.Model,
			Usage: ai.Usage{
				InputTokens:  int(acc.Usage.PromptTokens),
				OutputTokens: int(acc.Usage.CompletionTokens),
			},
		}
		if len(acc.Choices) > 0 {
			completion := acc.Choices[0]
			resp.Content = completion.Message.Content
			resp.FinishReason = string(completion.FinishReason)
			resp.ToolCalls = extractToolCalls(completion.Message.ToolCalls)
		}
		send(ai.StreamEvent{Done: true, Response: resp})
	}()

	return ch, nil
}

var _ ai.ChatProvider = (*Client)(nil)
