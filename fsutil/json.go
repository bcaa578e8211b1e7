package fsutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	ai "github.com/spetersoncode/aiagent"
)

// ErrNotArray reports a JSON file whose top-level value is not an array.
var ErrNotArray = errors.New("content is not a JSON array")

// AppendJSON appends v to the JSON array stored at path, creating the file
// and its directory when missing. A file that does not hold an array is
// replaced by a new one-element array.
func AppendJSON(path string, v any) error {
	items, err := ReadJSON(path)
	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrNotArray) {
		return err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return &ai.ResourceError{Op: "encode json", Path: path, Err: err}
	}
	return OverwriteJSON(path, append(items, raw))
}

// OverwriteJSON replaces the file at path with v, indented by two spaces.
func OverwriteJSON(path string, v any) error {
	if err := Mkdir(filepath.Dir(path)); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &ai.ResourceError{Op: "encode json", Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &ai.ResourceError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// ReadJSON returns the elements of the JSON array stored at path.
// A missing file matches ErrNotFound; a non-array value matches ErrNotArray.
func ReadJSON(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ai.ResourceError{Op: "read json", Path: path, Err: ErrNotFound}
		}
		return nil, &ai.ResourceError{Op: "read json", Path: path, Err: err}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ai.ResourceError{Op: "read json", Path: path, Err: ErrNotArray}
		}
		return nil, &ai.ResourceError{Op: "read json", Path: path, Err: err}
	}
	return items, nil
}

// ReadJSONAs decodes every element of the JSON array at path into T.
func ReadJSONAs[T any](path string) ([]T, error) {
	items, err := ReadJSON(path)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for i, raw := range items {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, &ai.ResourceError{Op: fmt.Sprintf("decode json element %d", i), Path: path, Err: err}
		}
		out = append(out, v)
	}
	return out, nil
}
