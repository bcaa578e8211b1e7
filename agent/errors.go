package agent

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyStream indicates a provider closed its stream without a final response.
var ErrEmptyStream = errors.New("agent: stream ended without a response")

// SchemaMismatchError reports structured output that does not satisfy the requested schema.
type SchemaMismatchError struct {
	Schema   string
	Problems []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("agent: output does not match schema %s: %s", e.Schema, strings.Join(e.Problems, "; "))
}
