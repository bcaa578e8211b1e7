package aiagent

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// SchemaBuilder constructs a JSON Schema object from a Go struct.
// Struct tags are honored: `desc:"..."`, `required:"true"` and `enum:"a,b,c"`.
// The fluent methods override or extend what the tags declare.
type SchemaBuilder struct {
	properties    map[string]*propertyDef
	required      []string
	propertyOrder []string
}

type propertyDef struct {
	Type        string
	Description string
	Enum        []any
	Items       *propertyDef
	Nested      *SchemaBuilder
}

// SchemaFrom creates a SchemaBuilder by reflecting on the given struct type.
func SchemaFrom[T any]() *SchemaBuilder {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return &SchemaBuilder{properties: make(map[string]*propertyDef)}
	}
	return buildFromStruct(t)
}

// SchemaFor generates the JSON Schema for struct type T.
func SchemaFor[T any]() (json.RawMessage, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: %s is not a struct", t)
	}
	return buildFromStruct(t).Build(), nil
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	s, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return s
}

func buildFromStruct(t reflect.Type) *SchemaBuilder {
	sb := &SchemaBuilder{properties: make(map[string]*propertyDef)}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]
		if name == "" {
			name = field.Name
		}

		prop := typeToPropertyDef(field.Type)
		prop.Description = field.Tag.Get("desc")
		if enum := field.Tag.Get("enum"); enum != "" {
			for _, v := range strings.Split(enum, ",") {
				prop.Enum = append(prop.Enum, strings.TrimSpace(v))
			}
		}
		sb.properties[name] = prop
		sb.propertyOrder = append(sb.propertyOrder, name)
		if field.Tag.Get("required") == "true" {
			sb.required = append(sb.required, name)
		}
	}
	return sb
}

func typeToPropertyDef(t reflect.Type) *propertyDef {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return &propertyDef{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &propertyDef{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &propertyDef{Type: "number"}
	case reflect.Bool:
		return &propertyDef{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		return &propertyDef{Type: "array", Items: typeToPropertyDef(t.Elem())}
	case reflect.Struct:
		return &propertyDef{Type: "object", Nested: buildFromStruct(t)}
	case reflect.Map:
		return &propertyDef{Type: "object"}
	default:
		return &propertyDef{Type: "string"}
	}
}

// Desc sets the description for a field.
func (s *SchemaBuilder) Desc(field, description string) *SchemaBuilder {
	if prop, ok := s.properties[field]; ok {
		prop.Description = description
	}
	return s
}

// Required marks the specified fields as required. Unknown fields are ignored.
func (s *SchemaBuilder) Required(fields ...string) *SchemaBuilder {
	for _, field := range fields {
		if _, ok := s.properties[field]; ok && !slices.Contains(s.required, field) {
			s.required = append(s.required, field)
		}
	}
	return s
}

// Enum sets the allowed values for a string field.
func (s *SchemaBuilder) Enum(field string, values ...string) *SchemaBuilder {
	if prop, ok := s.properties[field]; ok {
		prop.Enum = make([]any, len(values))
		for i, v := range values {
			prop.Enum[i] = v
		}
	}
	return s
}

// Build generates the JSON Schema as json.RawMessage.
func (s *SchemaBuilder) Build() json.RawMessage {
	data, err := json.Marshal(s.toMap())
	if err != nil {
		return json.RawMessage(`{"type":"object","properties":{}}`)
	}
	return data
}

func (s *SchemaBuilder) toMap() map[string]any {
	props := make(map[string]any, len(s.properties))
	for _, name := range s.propertyOrder {
		props[name] = s.properties[name].toMap()
	}
	result := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(s.required) > 0 {
		result["required"] = s.required
	}
	return result
}

func (p *propertyDef) toMap() map[string]any {
	if p.Nested != nil {
		m := p.Nested.toMap()
		if p.Description != "" {
			m["description"] = p.Description
		}
		return m
	}
	result := map[string]any{"type": p.Type}
	if p.Description != "" {
		result["description"] = p.Description
	}
	if len(p.Enum) > 0 {
		result["enum"] = p.Enum
	}
	if p.Items != nil {
		result["items"] = p.Items.toMap()
	}
	return result
}
