package fsutil

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	ai "github.com/spetersoncode/aiagent"
	"github.com/spetersoncode/aiagent/digest"
	"github.com/spetersoncode/aiagent/retry"
)

// ErrEmptyBuffer reports hashing or sizing of empty content.
var ErrEmptyBuffer = errors.New("fsutil: buffer cannot be empty")

// FileInfo describes a stored file.
type FileInfo struct {
	Name     string `json:"filename"`
	URI      string `json:"fileuri"`
	Hash     string `json:"filehash"`
	Size     int    `json:"filesize"`
	MimeType string `json:"filetype"`
}

// HashBytes returns the hex SHA-256 of data, which must not be empty.
func HashBytes(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyBuffer
	}
	return digest.SHA256Bytes(data), nil
}

// SizeBytes returns the length of data, which must not be empty.
func SizeBytes(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, ErrEmptyBuffer
	}
	return len(data), nil
}

func describe(name, uri string, data []byte) (*FileInfo, error) {
	hash, err := HashBytes(data)
	if err != nil {
		return nil, err
	}
	return &FileInfo{
		Name:     name,
		URI:      uri,
		Hash:     hash,
		Size:     len(data),
		MimeType: MimeType(name),
	}, nil
}

// SaveBuffer writes data to dir/name, creating dir, and describes the result.
// Empty data is rejected before anything is written.
func SaveBuffer(dir, name string, data []byte) (*FileInfo, error) {
	full, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return nil, &ai.ResourceError{Op: "save", Path: name, Err: err}
	}
	info, err := describe(name, full, data)
	if err != nil {
		return nil, err
	}
	if err := Mkdir(filepath.Dir(full)); err != nil {
		return nil, err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return nil, &ai.ResourceError{Op: "save", Path: full, Err: err}
	}
	return info, nil
}

// StatusError reports a download answered with a non-2xx status.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "unexpected status " + e.Status
}

// StatusCode returns the HTTP status code.
func (e *StatusError) StatusCode() int {
	return e.Code
}

// Download fetches rawURL into dir, naming the file after the last URL path
// segment (a random name when there is none). A nil client uses
// http.DefaultClient. Transient failures are retried once.
func Download(ctx context.Context, client *http.Client, rawURL, dir string) (*FileInfo, error) {
	return DownloadWithRetry(ctx, client, rawURL, dir, retry.DefaultConfig())
}

// DownloadWithRetry is Download with an explicit retry policy for transient
// failures (5xx, 429 and network errors).
func DownloadWithRetry(ctx context.Context, client *http.Client, rawURL, dir string, cfg retry.Config) (*FileInfo, error) {
	if client == nil {
		client = http.DefaultClient
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &ai.ResourceError{Op: "download", Path: rawURL, Err: err}
	}

	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		if name, err = digest.RandomString(16); err != nil {
			return nil, &ai.ResourceError{Op: "download", Path: rawURL, Err: err}
		}
	}

	data, err := retry.DoTransient(ctx, cfg, func(ctx context.Context) ([]byte, error) {
		return fetch(ctx, client, rawURL)
	})
	if err != nil {
		return nil, &ai.ResourceError{Op: "download", Path: rawURL, Err: err}
	}
	return SaveBuffer(dir, name, data)
}

func fetch(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	return io.ReadAll(resp.Body)
}

// ToInlineData reads a file and returns it as base64 media typed by its extension.
func ToInlineData(path string) (*ai.Media, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ai.ResourceError{Op: "read media", Path: path, Err: err}
	}
	return &ai.Media{
		InlineData: base64.StdEncoding.EncodeToString(data),
		MimeType:   MimeType(path),
	}, nil
}
