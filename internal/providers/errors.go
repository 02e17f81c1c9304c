// SPDX-License-Identifier: Apache-2.0

// Package providers defines the closed error taxonomy that every remote AI
// provider call is funneled through, together with the per-provider mappers
// that translate raw transport and HTTP failures into it.
//
// Callers branch on [ClassifiedError.Code] and [ClassifiedError.Retryable],
// never on message text.
package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorCode identifies one kind of provider failure. The set is closed:
// mappers are total and anything unrecognized becomes CodeUnknown.
type ErrorCode string

const (
	CodeAuthenticationFailed ErrorCode = "authentication_failed"
	CodeRateLimitExceeded    ErrorCode = "rate_limit_exceeded"
	CodeNetworkError         ErrorCode = "network_error"
	CodeModelNotFound        ErrorCode = "model_not_found"
	CodeInvalidRequest       ErrorCode = "invalid_request"
	CodeQuotaExceeded        ErrorCode = "quota_exceeded"
	CodeUnknown              ErrorCode = "unknown"
)

// defaultRetryable is the per-code default for the Retryable flag. Only
// rate limiting and network-level failures are worth retrying; everything
// else needs a change by the user or the provider first.
var defaultRetryable = map[ErrorCode]bool{
	CodeAuthenticationFailed: false,
	CodeRateLimitExceeded:    true,
	CodeNetworkError:         true,
	CodeModelNotFound:        false,
	CodeInvalidRequest:       false,
	CodeQuotaExceeded:        false,
	CodeUnknown:              false,
}

// defaultUserAction is the per-code remediation hint surfaced to the user.
var defaultUserAction = map[ErrorCode]string{
	CodeAuthenticationFailed: "Check that the API key is valid and has not expired, then store it again.",
	CodeRateLimitExceeded:    "Wait a moment and retry, or reduce the request rate.",
	CodeNetworkError:         "Check your network connection and try again.",
	CodeModelNotFound:        "Verify the model id exists for this provider.",
	CodeInvalidRequest:       "Check the request parameters.",
	CodeQuotaExceeded:        "Review the provider's usage quota or billing settings.",
	CodeUnknown:              "",
}

// ClassifiedError is the uniform failure value produced by provider
// mappers. Treat a constructed value as immutable; in particular, do not
// mutate Details after handing the error to a caller.
type ClassifiedError struct {
	// Code is the taxonomy kind. Always one of the Code* constants.
	Code ErrorCode

	// Message is a human-readable description of the underlying failure.
	Message string

	// Retryable reports whether retrying the same call can plausibly
	// succeed without user intervention.
	Retryable bool

	// UserAction optionally tells the user how to remediate the failure.
	UserAction string

	// Details carries provider-specific structured context, e.g. the HTTP
	// status or a retry-after hint. May be nil.
	Details map[string]any
}

func (e *ClassifiedError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewClassifiedError constructs a ClassifiedError for code with the
// code's default retryability and remediation text.
func NewClassifiedError(code ErrorCode, message string) *ClassifiedError {
	return &ClassifiedError{
		Code:       code,
		Message:    message,
		Retryable:  defaultRetryable[code],
		UserAction: defaultUserAction[code],
	}
}

// AsClassified extracts a *ClassifiedError from err's chain, if present.
func AsClassified(err error) (*ClassifiedError, bool) {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsRetryable reports whether err is worth retrying. A ClassifiedError
// answers with its own flag; a small set of raw connection-level failures
// is treated as retryable even when unclassified; everything else is not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if ce, ok := AsClassified(err); ok {
		return ce.Retryable
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"temporary failure",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
