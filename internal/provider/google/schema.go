package google

import (
	"encoding/json"
	"sort"

	"google.golang.org/genai"
)

// convertSchema converts a JSON Schema document into a genai.Schema.
// Returns nil for empty or malformed input.
func convertSchema(schemaJSON json.RawMessage) *genai.Schema {
	if len(schemaJSON) == 0 {
		return nil
	}
	var schema map[string]any
	if err := json.Unmarshal(schemaJSON, &schema); err != nil {
		return nil
	}
	return convertSchemaObject(schema)
}

var schemaTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

func convertSchemaObject(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}
	result := &genai.Schema{}

	switch t := schema["type"].(type) {
	case string:
		result.Type = schemaTypes[t]
	case []any:
		// ["string", "null"] style unions map to a nullable scalar.
		for _, v := range t {
			s, _ := v.(string)
			if s == "null" {
				result.Nullable = genai.Ptr(true)
			} else if gt, ok := schemaTypes[s]; ok && result.Type == "" {
				result.Type = gt
			}
		}
	}

	if desc, ok := schema["description"].(string); ok {
		result.Description = desc
	}
	if format, ok := schema["format"].(string); ok {
		result.Format = format
	}
	result.Enum = stringList(schema["enum"])

	if props, ok := schema["properties"].(map[string]any); ok {
		result.Properties = make(map[string]*genai.Schema, len(props))
		for name, prop := range props {
			if m, ok := prop.(map[string]any); ok {
				result.Properties[name] = convertSchemaObject(m)
				result.PropertyOrdering = append(result.PropertyOrdering, name)
			}
		}
		sort.Strings(result.PropertyOrdering)
	}
	result.Required = stringList(schema["required"])

	if items, ok := schema["items"].(map[string]any); ok {
		result.Items = convertSchemaObject(items)
	}
	return result
}

func stringList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
