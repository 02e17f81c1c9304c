// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Mapper translates the raw outcome of one provider HTTP call into a
// ClassifiedError. Implementations are total: nil is returned only for a
// successful response, and anything unrecognized maps to CodeUnknown
// instead of propagating unclassified.
type Mapper func(resp *resty.Response, err error) *ClassifiedError

// ForProvider returns the mapper for the named provider. Unknown provider
// names get the generic HTTP mapper, which covers statuses common to every
// service but knows no provider-specific quota or model markers.
func ForProvider(provider string) Mapper {
	switch provider {
	case "anthropic":
		return MapAnthropicError
	case "openai":
		return MapOpenAIError
	case "google":
		return MapGoogleError
	default:
		return mapGenericError
	}
}

// mapTransportError classifies failures that happened before any HTTP
// response existed: DNS, dial, reset, timeout. Cancellation is reported as
// a non-retryable network error so the retry loop stops immediately.
func mapTransportError(err error) *ClassifiedError {
	ce := NewClassifiedError(CodeNetworkError, err.Error())
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		ce.Retryable = false
	}
	return ce
}

// mapStatus handles the status codes whose meaning does not differ between
// providers. It returns nil for anything it does not recognize so the
// per-provider mapper can apply its own rules first.
func mapStatus(resp *resty.Response) *ClassifiedError {
	status := resp.StatusCode()

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		ce := NewClassifiedError(CodeAuthenticationFailed,
			fmt.Sprintf("provider rejected the API key (http %d)", status))
		ce.Details = map[string]any{"status": status}
		return ce

	case http.StatusTooManyRequests:
		ce := NewClassifiedError(CodeRateLimitExceeded,
			"provider rate limit exceeded (http 429)")
		ce.Details = map[string]any{"status": status}
		if ra := retryAfterSeconds(resp); ra > 0 {
			ce.Details["retry_after_seconds"] = ra
		}
		return ce

	case http.StatusBadRequest:
		ce := NewClassifiedError(CodeInvalidRequest, bodySummary(resp))
		ce.Details = map[string]any{"status": status}
		return ce
	}

	if status >= 500 {
		// Server-side failures are transient from the caller's view.
		ce := NewClassifiedError(CodeNetworkError,
			fmt.Sprintf("provider server error (http %d)", status))
		ce.Retryable = true
		ce.Details = map[string]any{"status": status}
		return ce
	}
	return nil
}

// unknownFor is the total-mapping fallthrough.
func unknownFor(resp *resty.Response) *ClassifiedError {
	ce := NewClassifiedError(CodeUnknown,
		fmt.Sprintf("unclassified provider error (http %d): %s", resp.StatusCode(), bodySummary(resp)))
	ce.Details = map[string]any{"status": resp.StatusCode()}
	return ce
}

func mapGenericError(resp *resty.Response, err error) *ClassifiedError {
	if err != nil {
		return mapTransportError(err)
	}
	if resp == nil || resp.IsSuccess() {
		return nil
	}
	if ce := mapStatus(resp); ce != nil {
		return ce
	}
	if resp.StatusCode() == http.StatusNotFound {
		ce := NewClassifiedError(CodeModelNotFound, bodySummary(resp))
		ce.Details = map[string]any{"status": http.StatusNotFound}
		return ce
	}
	return unknownFor(resp)
}

// retryAfterSeconds parses the Retry-After header as a delay in seconds.
// HTTP-date values are ignored; every covered provider sends seconds.
func retryAfterSeconds(resp *resty.Response) int {
	v := resp.Header().Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return secs
}

// bodySummary returns a single-line, length-capped rendering of the
// response body for use in error messages.
func bodySummary(resp *resty.Response) string {
	body := strings.TrimSpace(string(resp.Body()))
	body = strings.ReplaceAll(body, "\n", " ")
	if body == "" {
		return http.StatusText(resp.StatusCode())
	}
	if len(body) > 200 {
		body = body[:200] + "…"
	}
	return body
}

func bodyContainsAny(resp *resty.Response, markers ...string) bool {
	body := strings.ToLower(string(resp.Body()))
	for _, m := range markers {
		if strings.Contains(body, m) {
			return true
		}
	}
	return false
}
