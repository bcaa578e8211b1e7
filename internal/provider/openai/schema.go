package openai

import (
	"encoding/json"
	"slices"

	"github.com/openai/openai-go"
	ai "github.com/spetersoncode/aiagent"
)

func buildSchemaFormat(schema *ai.ResponseSchema) openai.ChatCompletionNewParamsResponseFormatUnion {
	var schemaMap map[string]any
	_ = json.Unmarshal(schema.Schema, &schemaMap)

	name := schema.Name
	if name == "" {
		name = "response_schema"
	}

	// Strict mode needs every property required and closed objects.
	strict := allRequired(schemaMap)
	if strict {
		closeObjects(schemaMap)
	}

	param := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   name,
		Schema: schemaMap,
		Strict: openai.Bool(strict),
	}
	if schema.Description != "" {
		param.Description = openai.String(schema.Description)
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: param},
	}
}

func allRequired(schema map[string]any) bool {
	if schema == nil {
		return false
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		required := stringList(schema["required"])
		for name, prop := range props {
			if !slices.Contains(required, name) {
				return false
			}
			if m, ok := prop.(map[string]any); ok && isObjectOrArray(m) && !allRequired(m) {
				return false
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok && isObjectOrArray(items) {
		return allRequired(items)
	}
	return true
}

func isObjectOrArray(schema map[string]any) bool {
	t, _ := schema["type"].(string)
	return t == "object" || t == "array"
}

func stringList(v any) []string {
	raw, _ := v.([]any)
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// closeObjects adds additionalProperties: false to every object schema.
func closeObjects(schema map[string]any) {
	if schema == nil {
		return
	}
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		for _, prop := range props {
			if m, ok := prop.(map[string]any); ok {
				closeObjects(m)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		closeObjects(items)
	}
}
