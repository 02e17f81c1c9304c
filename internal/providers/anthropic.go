// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"net/http"

	"github.com/go-resty/resty/v2"
)

// MapAnthropicError classifies the outcome of an Anthropic Messages API
// call. Anthropic reports errors as {"type":"error","error":{"type":...,
// "message":...}}; the error type string disambiguates cases the bare
// status code cannot.
func MapAnthropicError(resp *resty.Response, err error) *ClassifiedError {
	if err != nil {
		return mapTransportError(err)
	}
	if resp == nil || resp.IsSuccess() {
		return nil
	}

	// Anthropic signals an exhausted credit balance with a 400 whose error
	// type mentions billing, not with a quota status code.
	if resp.StatusCode() == http.StatusBadRequest &&
		bodyContainsAny(resp, "billing", "credit balance") {
		ce := NewClassifiedError(CodeQuotaExceeded, bodySummary(resp))
		ce.Details = map[string]any{"status": resp.StatusCode()}
		return ce
	}

	if ce := mapStatus(resp); ce != nil {
		return ce
	}

	if resp.StatusCode() == http.StatusNotFound {
		if bodyContainsAny(resp, "model") {
			ce := NewClassifiedError(CodeModelNotFound, bodySummary(resp))
			ce.Details = map[string]any{"status": http.StatusNotFound}
			return ce
		}
		ce := NewClassifiedError(CodeInvalidRequest, bodySummary(resp))
		ce.Details = map[string]any{"status": http.StatusNotFound}
		return ce
	}

	// 529 "overloaded_error" is Anthropic-specific and transient.
	if resp.StatusCode() == 529 {
		ce := NewClassifiedError(CodeRateLimitExceeded, "provider overloaded (http 529)")
		ce.Details = map[string]any{"status": 529}
		return ce
	}

	return unknownFor(resp)
}
