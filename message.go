package aiagent

import (
	"strings"

	"github.com/google/uuid"
)

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// IsConversational reports whether the role may appear in a caller-supplied session.
func (r Role) IsConversational() bool {
	return r == RoleUser || r == RoleAssistant
}

// DefaultMimeType is used for file parts that do not declare a mime type.
const DefaultMimeType = "application/octet-stream"

// ContentPartType represents the type of content in a multi-part message.
type ContentPartType string

const (
	ContentPartTypeText ContentPartType = "text"
	ContentPartTypeFile ContentPartType = "file"
)

// ContentPart represents a single part of multi-part content.
// Text parts use Text; file parts carry base64 Data and a MimeType.
type ContentPart struct {
	Type     ContentPartType `json:"type"`
	Text     string          `json:"text,omitempty"`
	Data     string          `json:"data,omitempty"`
	MimeType string          `json:"mimeType,omitempty"`
}

// NewTextPart creates a text content part.
func NewTextPart(text string) ContentPart {
	return ContentPart{
		Type: ContentPartTypeText,
		Text: text,
	}
}

// NewFilePart creates a file content part from base64 data.
// An empty mime type is replaced with DefaultMimeType.
func NewFilePart(base64Data, mimeType string) ContentPart {
	if mimeType == "" {
		mimeType = DefaultMimeType
	}
	return ContentPart{
		Type:     ContentPartTypeFile,
		Data:     base64Data,
		MimeType: mimeType,
	}
}

// IsImage reports whether the part is a file part holding an image.
func (p ContentPart) IsImage() bool {
	return p.Type == ContentPartTypeFile && strings.HasPrefix(p.MimeType, "image/")
}

// Media is an inline attachment supplied alongside a prompt.
type Media struct {
	// InlineData is the base64 encoded payload.
	InlineData string `json:"inlineData"`
	// MimeType is the declared type of the payload. Empty means DefaultMimeType.
	MimeType string `json:"mimeType,omitempty"`
}

// IsEmpty reports whether the media carries no payload.
func (m *Media) IsEmpty() bool {
	return m == nil || m.InlineData == ""
}

// Message represents a single message in a conversation.
type Message struct {
	// ID is an optional unique identifier for the message.
	ID      string `json:"id,omitempty"`
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`
	// Parts contains multi-part content (text, files).
	// If populated, Content is ignored by the providers.
	Parts []ContentPart `json:"parts,omitempty"`
	// ToolCalls contains tool invocation requests from an assistant message.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
	// ToolResults contains results from tool executions.
	// Only populated when Role is RoleTool.
	ToolResults []ToolResult `json:"toolResults,omitempty"`
}

// NewUserMessage creates a plain-text user message.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// NewAssistantMessage creates a plain-text assistant message.
func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// HasParts returns true if the message has multi-part content.
func (m Message) HasParts() bool {
	return len(m.Parts) > 0
}

// Text reduces the message content to plain text.
// For multi-part messages the text parts are concatenated in order.
func (m Message) Text() string {
	if !m.HasParts() {
		return m.Content
	}
	var sb strings.Builder
	for _, p := range m.Parts {
		if p.Type == ContentPartTypeText {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// IsEmpty reports whether the message carries no content of any kind.
func (m Message) IsEmpty() bool {
	return m.Content == "" && len(m.Parts) == 0 && len(m.ToolCalls) == 0 && len(m.ToolResults) == 0
}

// Response represents a complete response from a chat provider.
type Response struct {
	Content      string `json:"content,omitempty"`
	FinishReason string `json:"finishReason,omitempty"`
	Usage        Usage  `json:"usage"`
	// Model is the identifier of the model that produced the response.
	Model string `json:"model,omitempty"`
	// ToolCalls contains any tool invocation requests from the model.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
}

// Usage contains token usage information for a request.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// Add returns the sum of two usage records.
func (u Usage) Add(other Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
	}
}

// StreamEvent represents a single event in a streaming response.
type StreamEvent struct {
	// Delta contains the incremental content for this event.
	Delta string
	// Done indicates if this is the final event in the stream.
	Done bool
	// Response contains the final response data when Done is true.
	Response *Response
	// Err contains any error that occurred during streaming.
	Err error
}
