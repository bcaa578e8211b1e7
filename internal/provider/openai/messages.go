package openai

import (
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	ai "github.com/spetersoncode/aiagent"
)

func convertMessages(system string, messages []ai.Message) []openai.ChatCompletionMessageParamUnion {
	var result []openai.ChatCompletionMessageParamUnion
	if system != "" {
		result = append(result, openai.SystemMessage(system))
	}
	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleUser:
			if msg.HasParts() {
				parts := convertParts(msg.Parts)
				if len(parts) > 0 {
					result = append(result, openai.ChatCompletionMessageParamUnion{
						OfUser: &openai.ChatCompletionUserMessageParam{
							Content: openai.ChatCompletionUserMessageParamContentUnion{
								OfArrayOfContentParts: parts,
							},
						},
					})
				}
			} else if msg.Content != "" {
				result = append(result, openai.UserMessage(msg.Content))
			}
		case ai.RoleAssistant:
			text := msg.Text()
			if len(msg.ToolCalls) > 0 {
				toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
				for i, tc := range msg.ToolCalls {
					toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
						ID: tc.ID,
						Function: openai.ChatCompletionMessageToolCallFunctionParam{
							Name:      tc.Name,
							Arguments: tc.Arguments,
						},
					}
				}
				assistant := openai.ChatCompletionAssistantMessageParam{ToolCalls: toolCalls}
				if text != "" {
					assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
						OfString: openai.String(text),
					}
				}
				result = append(result, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
			} else if text != "" {
				result = append(result, openai.AssistantMessage(text))
			}
		case ai.RoleSystem:
			if text := msg.Text(); text != "" {
				result = append(result, openai.SystemMessage(text))
			}
		case ai.RoleTool:
			for _, tr := range msg.ToolResults {
				result = append(result, openai.ToolMessage(tr.Content, tr.ToolCallID))
			}
		}
	}
	return result
}

// convertParts maps parts onto content parts. Images become image_url parts with a
// data URI; every other file type is sent as an inline file part.
func convertParts(parts []ai.ContentPart) []openai.ChatCompletionContentPartUnionParam {
	var result []openai.ChatCompletionContentPartUnionParam
	for i, part := range parts {
		switch part.Type {
		case ai.ContentPartTypeText:
			if part.Text != "" {
				result = append(result, openai.TextContentPart(part.Text))
			}
		case ai.ContentPartTypeFile:
			if part.Data == "" {
				continue
			}
			mimeType := part.MimeType
			if mimeType == "" {
				mimeType = ai.DefaultMimeType
			}
			uri := dataURI(mimeType, part.Data)
			if part.IsImage() {
				result = append(result, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: uri,
				}))
				continue
			}
			result = append(result, openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
				FileData: openai.String(uri),
				Filename: openai.String(fileName(i, mimeType)),
			}))
		}
	}
	return result
}

func dataURI(mimeType, b64 string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, b64)
}

func fileName(index int, mimeType string) string {
	ext := "bin"
	if _, sub, ok := strings.Cut(mimeType, "/"); ok && sub != "" && !strings.Contains(sub, "octet") {
		ext = sub
	}
	return fmt.Sprintf("attachment-%d.%s", index, ext)
}
