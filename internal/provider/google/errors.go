package google

import (
	"errors"
	"fmt"
	"strings"

	ai "github.com/spetersoncode/aiagent"
	"google.golang.org/genai"
)

// wrapError converts a genai API error into a categorized ai.Error.
// genai.APIError exposes no headers, so Retry-After is never populated.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fromAPIError(apiErr, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return fromAPIError(*apiErrPtr, err)
	}
	return err
}

func fromAPIError(apiErr genai.APIError, cause error) error {
	return ai.NewProviderError("google: "+apiErr.Message, apiErr.Code, kindOf(apiErr), 0, cause)
}

func kindOf(apiErr genai.APIError) ai.ErrorKind {
	if apiErr.Status == "RESOURCE_EXHAUSTED" || apiErr.Code == 429 {
		if strings.Contains(strings.ToLower(apiErr.Message), "quota") {
			return ai.KindQuota
		}
		return ai.KindRateLimit
	}
	return ai.KindForStatus(apiErr.Code)
}

// BlockedError indicates the request was blocked by content filtering.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("google: request blocked: %s", e.Reason)
}
