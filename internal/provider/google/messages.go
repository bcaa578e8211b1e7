package google

import (
	"encoding/base64"
	"encoding/json"

	ai "github.com/spetersoncode/aiagent"
	"google.golang.org/genai"
)

// convertMessages maps the conversation onto Gemini contents.
// System messages are folded into the system instruction.
func convertMessages(system string, messages []ai.Message) ([]*genai.Content, *genai.Content, error) {
	var contents []*genai.Content
	var systemParts []*genai.Part
	if system != "" {
		systemParts = append(systemParts, &genai.Part{Text: system})
	}

	for _, msg := range messages {
		if msg.Role == ai.RoleSystem {
			if text := msg.Text(); text != "" {
				systemParts = append(systemParts, &genai.Part{Text: text})
			}
			continue
		}

		role := genai.RoleUser
		if msg.Role == ai.RoleAssistant {
			role = genai.RoleModel
		}

		var parts []*genai.Part
		if msg.HasParts() {
			converted, err := convertParts(msg.Parts)
			if err != nil {
				return nil, nil, err
			}
			parts = converted
		} else if msg.Content != "" {
			parts = append(parts, &genai.Part{Text: msg.Content})
		}

		for _, tc := range msg.ToolCalls {
			var args map[string]any
			_ = json.Unmarshal([]byte(tc.Arguments), &args)
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{ID: tc.ID, Name: tc.Name, Args: args},
			})
		}

		for _, tr := range msg.ToolResults {
			var result map[string]any
			if err := json.Unmarshal([]byte(tr.Content), &result); err != nil {
				result = map[string]any{"result": tr.Content}
			}
			if tr.IsError {
				result = map[string]any{"error": tr.Content}
			}
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{ID: tr.ToolCallID, Name: tr.Name, Response: result},
			})
		}

		if len(parts) > 0 {
			contents = append(contents, &genai.Content{Role: role, Parts: parts})
		}
	}

	var systemInstruction *genai.Content
	if len(systemParts) > 0 {
		systemInstruction = &genai.Content{Parts: systemParts}
	}
	return contents, systemInstruction, nil
}

func convertParts(parts []ai.ContentPart) ([]*genai.Part, error) {
	var result []*genai.Part
	for _, part := range parts {
		switch part.Type {
		case ai.ContentPartTypeText:
			if part.Text != "" {
				result = append(result, &genai.Part{Text: part.Text})
			}
		case ai.ContentPartTypeFile:
			if part.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.Data)
			if err != nil {
				return nil, &ai.ValidationError{Field: "media.inlineData", Reason: "invalid base64: " + err.Error()}
			}
			mimeType := part.MimeType
			if mimeType == "" {
				mimeType = ai.DefaultMimeType
			}
			result = append(result, &genai.Part{
				InlineData: &genai.Blob{Data: data, MIMEType: mimeType},
			})
		}
	}
	return result, nil
}
