package openai

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/openai/openai-go"
	ai "github.com/spetersoncode/aiagent"
)

// wrapError converts an SDK error into a categorized ai.Error.
// Non-API errors (network, context) are returned unchanged.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	code := apiErr.StatusCode
	return ai.NewProviderError("openai: "+apiErr.Message, code, kindOf(apiErr), parseRetryAfter(apiErr.Response), err)
}

func kindOf(apiErr *openai.Error) ai.ErrorKind {
	switch apiErr.Code {
	case "insufficient_quota":
		return ai.KindQuota
	case "rate_limit_exceeded":
		return ai.KindRateLimit
	}
	return ai.KindForStatus(apiErr.StatusCode)
}

// parseRetryAfter extracts the Retry-After duration from an HTTP response.
// Returns 0 if the header is not present or cannot be parsed.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}
	return 0
}
