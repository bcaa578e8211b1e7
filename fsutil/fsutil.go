package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	ai "github.com/spetersoncode/aiagent"
)

// ErrNotFound is matched by errors returned for missing files.
var ErrNotFound = fs.ErrNotExist

// ErrEmptyFile reports a file that exists but holds only whitespace.
var ErrEmptyFile = errors.New("file is empty")

// Mkdir creates dir and any missing parents. An existing directory is not an error.
func Mkdir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ai.ResourceError{Op: "create directory", Path: dir, Err: err}
	}
	return nil
}

// Remove deletes path recursively. A missing path is not an error.
func Remove(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return &ai.ResourceError{Op: "remove", Path: path, Err: err}
	}
	return nil
}

// Exists reports whether path exists. Errors other than "not exist" are returned.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, &ai.ResourceError{Op: "stat", Path: path, Err: err}
	}
}

// ReadText returns the contents of a text file.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ai.ResourceError{Op: "read", Path: path, Err: err}
	}
	return string(data), nil
}

// ReadNonEmptyText is ReadText that also rejects whitespace-only content.
func ReadNonEmptyText(path string) (string, error) {
	text, err := ReadText(path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", &ai.ResourceError{Op: "read", Path: path, Err: ErrEmptyFile}
	}
	return text, nil
}
