// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"net/http"

	"github.com/go-resty/resty/v2"
)

// MapGoogleError classifies the outcome of a Google Gemini API call.
// Google reports errors as {"error":{"code":...,"status":...,
// "message":...}} with gRPC-style status strings. RESOURCE_EXHAUSTED
// covers both rate limiting and exhausted daily quota; the message text
// distinguishes them.
func MapGoogleError(resp *resty.Response, err error) *ClassifiedError {
	if err != nil {
		return mapTransportError(err)
	}
	if resp == nil || resp.IsSuccess() {
		return nil
	}

	if resp.StatusCode() == http.StatusTooManyRequests &&
		bodyContainsAny(resp, "quota exceeded", "daily limit", "exceeded your quota") {
		ce := NewClassifiedError(CodeQuotaExceeded, bodySummary(resp))
		ce.Details = map[string]any{"status": resp.StatusCode()}
		return ce
	}

	// Gemini reports an unknown model as a 400 INVALID_ARGUMENT or a 404,
	// both with the model name in the message.
	if (resp.StatusCode() == http.StatusBadRequest || resp.StatusCode() == http.StatusNotFound) &&
		bodyContainsAny(resp, "model", "not found for api version") {
		ce := NewClassifiedError(CodeModelNotFound, bodySummary(resp))
		ce.Details = map[string]any{"status": resp.StatusCode()}
		return ce
	}

	if ce := mapStatus(resp); ce != nil {
		return ce
	}

	if resp.StatusCode() == http.StatusNotFound {
		ce := NewClassifiedError(CodeInvalidRequest, bodySummary(resp))
		ce.Details = map[string]any{"status": http.StatusNotFound}
		return ce
	}

	return unknownFor(resp)
}
