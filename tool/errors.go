package tool

import (
	"fmt"
	"strings"
)

// ErrToolNotFound is returned when a tool call references an unregistered tool.
type ErrToolNotFound struct {
	Name string
}

func (e *ErrToolNotFound) Error() string {
	return fmt.Sprintf("tool: not found: %s", e.Name)
}

// ErrToolAlreadyRegistered is returned when registering a tool with a duplicate name.
type ErrToolAlreadyRegistered struct {
	Name string
}

func (e *ErrToolAlreadyRegistered) Error() string {
	return fmt.Sprintf("tool: already registered: %s", e.Name)
}

// ErrReservedName is returned when a caller tool reuses a reserved tool name.
type ErrReservedName struct {
	Name string
}

func (e *ErrReservedName) Error() string {
	return fmt.Sprintf("tool: %s is reserved", e.Name)
}

// ErrInvalidSchema is returned when a tool's parameter schema cannot be compiled.
type ErrInvalidSchema struct {
	Name string
	Err  error
}

func (e *ErrInvalidSchema) Error() string {
	return fmt.Sprintf("tool: %s has an invalid parameter schema: %v", e.Name, e.Err)
}

func (e *ErrInvalidSchema) Unwrap() error {
	return e.Err
}

// ErrInvalidArguments reports arguments that do not match the tool's schema.
type ErrInvalidArguments struct {
	Name     string
	Problems []string
}

func (e *ErrInvalidArguments) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Name, strings.Join(e.Problems, "; "))
}
