// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to appropriate HTTP responses

package handlers

import (
	"context"
	stderrors "errors"

	"github.com/danielgtaylor/huma/v2"

	"ai-search-api/core/errors"
)

// storeService names the upstream used by the stats endpoint
const storeService = "store"

// toHumaError converts domain errors to appropriate Huma HTTP errors
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	var validationErr *errors.ValidationError
	if stderrors.As(err, &validationErr) {
		return huma.Error400BadRequest(validationErr.Message, err)
	}

	var upstreamErr *errors.UpstreamError
	if stderrors.As(err, &upstreamErr) {
		if upstreamErr.Service == storeService {
			return huma.Error503ServiceUnavailable("Stats unavailable: store error", err)
		}
		return huma.Error502BadGateway("Search backend fetch failed", err)
	}

	if errors.IsExternalAPI(err) {
		var apiErr *errors.ExternalAPIError
		stderrors.As(err, &apiErr)
		switch {
		case apiErr.StatusCode >= 500:
			return huma.Error503ServiceUnavailable("External service error", err)
		case apiErr.StatusCode == 429:
			return huma.Error429TooManyRequests("Rate limited by external service")
		case apiErr.StatusCode >= 400:
			return huma.Error400BadRequest("External service request error", err)
		default:
			return huma.Error500InternalServerError("Unexpected external service response", err)
		}
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return huma.Error504GatewayTimeout("Search timed out", err)
	}
	if stderrors.Is(err, context.Canceled) {
		return huma.Error503ServiceUnavailable("Request cancelled", err)
	}

	// Default to internal server error for unknown errors
	return huma.Error500InternalServerError("Internal server error", err)
}
