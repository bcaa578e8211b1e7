package retry

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"

	ai "github.com/spetersoncode/aiagent"
)

// statusCoder is implemented by SDK errors that expose an HTTP status.
type statusCoder interface {
	StatusCode() int
}

// IsRateLimited reports whether err is a rate-limit or quota failure.
// Typed information wins: an ai.CategorizedError with kind rate_limit or quota,
// or an HTTP 429, is rate limited; any other typed kind is not. Errors without
// type information fall back to MatchRateLimitText.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	var ce ai.CategorizedError
	if errors.As(err, &ce) {
		switch ce.Kind() {
		case ai.KindRateLimit, ai.KindQuota:
			return true
		case ai.KindUnknown:
			if ce.StatusCode() == 429 {
				return true
			}
			return MatchRateLimitText(err.Error())
		default:
			return false
		}
	}

	var sc statusCoder
	if errors.As(err, &sc) && sc.StatusCode() == 429 {
		return true
	}
	return MatchRateLimitText(err.Error())
}

// MatchRateLimitText is the compatibility shim for untyped errors: it matches
// "rate limit" or "quota" anywhere in msg, ignoring case. Messages that only
// say "too many requests" or "resource exhausted" are not matched.
func MatchRateLimitText(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "rate limit") || strings.Contains(lower, "quota")
}

// IsTransient determines if an error is transient and should be retried.
// Categorized errors report their category; otherwise status codes and
// network-level failures are inspected.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ce ai.CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ai.ErrorTransient
	}

	var sc statusCoder
	if errors.As(err, &sc) && isTransientStatusCode(sc.StatusCode()) {
		return true
	}
	return isTransientNetworkError(err)
}

func isTransientStatusCode(code int) bool {
	return code == 429 || (code >= 500 && code < 600)
}

func isTransientNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ETIMEDOUT:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection reset",
		"connection refused",
		"timeout",
		"temporary failure",
		"service unavailable",
		"bad gateway",
		"gateway timeout",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
