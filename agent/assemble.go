package agent

import (
	"fmt"
	"slices"

	ai "github.com/spetersoncode/aiagent"
)

// AssembleMessages builds the conversation to submit: the prior session
// followed by one user message carrying prompt and, when present, media.
//
// With media, the user message has two parts: the prompt text then the file.
// Without media it carries the prompt as plain content, or as a single text
// part when structured is true. The result never aliases session.
func AssembleMessages(session []ai.Message, prompt string, media *ai.Media, structured bool) ([]ai.Message, error) {
	if prompt == "" {
		return nil, &ai.ValidationError{Field: "prompt", Reason: "must be a non-empty string"}
	}
	for i, m := range session {
		if !m.Role.IsConversational() {
			return nil, &ai.ValidationError{
				Field:  fmt.Sprintf("session[%d]", i),
				Reason: fmt.Sprintf("role %q is not user or assistant", m.Role),
			}
		}
		if m.IsEmpty() {
			return nil, &ai.ValidationError{Field: fmt.Sprintf("session[%d]", i), Reason: "message has no content"}
		}
	}

	out := make([]ai.Message, 0, len(session)+1)
	for _, m := range session {
		m.Parts = slices.Clone(m.Parts)
		m.ToolCalls = slices.Clone(m.ToolCalls)
		m.ToolResults = slices.Clone(m.ToolResults)
		out = append(out, m)
	}

	user := ai.Message{Role: ai.RoleUser}
	switch {
	case !media.IsEmpty():
		user.Parts = []ai.ContentPart{
			ai.NewTextPart(prompt),
			ai.NewFilePart(media.InlineData, media.MimeType),
		}
	case structured:
		user.Parts = []ai.ContentPart{ai.NewTextPart(prompt)}
	default:
		user.Content = prompt
	}
	return append(out, user), nil
}
