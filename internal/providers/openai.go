// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"net/http"

	"github.com/go-resty/resty/v2"
)

// MapOpenAIError classifies the outcome of an OpenAI API call. OpenAI
// reports errors as {"error":{"type":...,"code":...,"message":...}}. The
// important quirk: an exhausted quota arrives as a 429 with error type
// "insufficient_quota" — retrying it is pointless, unlike a plain rate
// limit.
func MapOpenAIError(resp *resty.Response, err error) *ClassifiedError {
	if err != nil {
		return mapTransportError(err)
	}
	if resp == nil || resp.IsSuccess() {
		return nil
	}

	if resp.StatusCode() == http.StatusTooManyRequests &&
		bodyContainsAny(resp, "insufficient_quota", "exceeded your current quota") {
		ce := NewClassifiedError(CodeQuotaExceeded, bodySummary(resp))
		ce.Details = map[string]any{"status": resp.StatusCode()}
		return ce
	}

	if ce := mapStatus(resp); ce != nil {
		return ce
	}

	if resp.StatusCode() == http.StatusNotFound {
		if bodyContainsAny(resp, "model_not_found", "does not exist", "model") {
			ce := NewClassifiedError(CodeModelNotFound, bodySummary(resp))
			ce.Details = map[string]any{"status": http.StatusNotFound}
			return ce
		}
		ce := NewClassifiedError(CodeInvalidRequest, bodySummary(resp))
		ce.Details = map[string]any{"status": http.StatusNotFound}
		return ce
	}

	return unknownFor(resp)
}
