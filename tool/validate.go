package tool

import (
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// compileSchema compiles a tool parameter schema. An empty schema accepts any object.
func compileSchema(name string, schema json.RawMessage) (*gojsonschema.Schema, error) {
	if len(schema) == 0 {
		return nil, nil
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema))
	if err != nil {
		return nil, &ErrInvalidSchema{Name: name, Err: err}
	}
	return compiled, nil
}

// validateArguments checks raw JSON arguments against schema.
// Empty arguments are treated as an empty object.
func validateArguments(name string, schema *gojsonschema.Schema, arguments string) error {
	if schema == nil {
		return nil
	}
	if strings.TrimSpace(arguments) == "" {
		arguments = "{}"
	}
	if !json.Valid([]byte(arguments)) {
		return &ErrInvalidArguments{Name: name, Problems: []string{"arguments are not valid JSON"}}
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(arguments))
	if err != nil {
		return &ErrInvalidArguments{Name: name, Problems: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return &ErrInvalidArguments{Name: name, Problems: problems}
}
