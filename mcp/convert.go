package mcp

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	ai "github.com/spetersoncode/aiagent"
)

// emptyObjectSchema is advertised for tools registered without parameters.
var emptyObjectSchema = json.RawMessage(`{"type":"object","properties":{}}`)

// ToMCPTool converts a tool definition to an MCP tool using its schema verbatim.
func ToMCPTool(t ai.Tool) mcp.Tool {
	schema := t.Parameters
	if len(schema) == 0 {
		schema = emptyObjectSchema
	}
	return mcp.NewToolWithRawSchema(t.Name, t.Description, schema)
}

// FromMCPTool converts an MCP tool to a tool definition.
// RawInputSchema is preferred; otherwise the structured schema is marshaled.
func FromMCPTool(t mcp.Tool) ai.Tool {
	schema := t.RawInputSchema
	if len(schema) == 0 {
		if data, err := json.Marshal(t.InputSchema); err == nil {
			schema = data
		}
	}
	return ai.Tool{Name: t.Name, Description: t.Description, Parameters: schema}
}

// ToMCPCallToolRequest converts a tool call to an MCP request. Arguments
// that are not valid JSON are sent as a plain string.
func ToMCPCallToolRequest(call ai.ToolCall) mcp.CallToolRequest {
	var args any
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			args = call.Arguments
		}
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: call.Name, Arguments: args},
	}
}

// FromMCPCallToolResult converts an MCP result for call into a tool result.
// Text content is joined with newlines; other content and structured
// content are included as JSON. A nil result is an error result.
func FromMCPCallToolResult(call ai.ToolCall, result *mcp.CallToolResult) ai.ToolResult {
	out := ai.ToolResult{ToolCallID: call.ID, Name: call.Name}
	if result == nil {
		out.IsError = true
		return out
	}

	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				parts = append(parts, string(data))
			}
		}
	}
	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			parts = append(parts, string(data))
		}
	}

	out.Content = strings.Join(parts, "\n")
	out.IsError = result.IsError
	return out
}

// ToMCPCallToolResult converts a tool result to an MCP result.
func ToMCPCallToolResult(result ai.ToolResult) *mcp.CallToolResult {
	if result.IsError {
		return mcp.NewToolResultError(result.Content)
	}
	return mcp.NewToolResultText(result.Content)
}
