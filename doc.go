// Package aiagent provides the shared types for a small LLM agent library.
//
// A single [agent.Agent] talks to two model families through one interface:
// model ids starting with "gemini-" are served by Google's Gemini API and
// ids starting with "gpt-" by an OpenAI-compatible endpoint. Anything else
// falls back to [model.DefaultModel].
//
// # Core Types
//
//   - [Message] and [ContentPart]: one conversation turn, text or inline file
//   - [ChatProvider]: the interface both provider adapters implement
//   - [Tool], [ToolCall], [ToolResult]: function calling
//   - [ConversationRecord]: the persisted form of a turn, used by session stores
//
// # Errors
//
// Construction problems are reported as [*ConfigError], bad per-call input as
// [*ValidationError] and local file failures as [*ResourceError]. Each
// matches its sentinel ([ErrConfig], [ErrValidation], [ErrResource]) with
// errors.Is. Provider failures are [*Error] values carrying an [ErrorKind]
// and HTTP status:
//
//	if aiagent.KindOf(err) == aiagent.KindRateLimit {
//	    // back off
//	}
//
// # Structured Output
//
// [SchemaFor] derives a JSON Schema from struct tags:
//
//	type Answer struct {
//	    City string `json:"city" desc:"City name" required:"true"`
//	    Unit string `json:"unit" enum:"celsius,fahrenheit"`
//	}
//	schema := aiagent.MustSchemaFor[Answer]()
package aiagent
