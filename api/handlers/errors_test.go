package handlers

import (
	"fmt"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manabi-reader/core/errors"
)

func TestToHumaError(t *testing.T) {
	tests := []struct {
		name           string
		input          error
		expectedStatus int
		expectedInMsg  string
	}{
		{
			name:           "NotFoundError returns 404",
			input:          &errors.NotFoundError{Resource: "record", ID: "https://example.com/a"},
			expectedStatus: 404,
			expectedInMsg:  "record not found",
		},
		{
			name:           "ValidationError returns 400",
			input:          &errors.ValidationError{Field: "feed", Message: "empty feed content"},
			expectedStatus: 400,
			expectedInMsg:  "empty feed content",
		},
		{
			name:           "unavailable extraction returns 422",
			input:          &errors.ExtractionError{Kind: errors.ExtractionUnavailable, URL: "https://x.com/a", Reason: "excludedDomain"},
			expectedStatus: 422,
			expectedInMsg:  "Reader mode unavailable: excludedDomain",
		},
		{
			name:           "failed extraction returns 422",
			input:          &errors.ExtractionError{Kind: errors.ExtractionFailed, URL: "https://example.com/a", Reason: "emptyContent"},
			expectedStatus: 422,
			expectedInMsg:  "Reader mode failed: emptyContent",
		},
		{
			name:           "URLMismatchError returns 409",
			input:          &errors.URLMismatchError{Expected: "https://example.com/a", Actual: "https://example.com/b"},
			expectedStatus: 409,
			expectedInMsg:  "url mismatch",
		},
		{
			name:           "ExternalAPIError with 500 returns 503",
			input:          &errors.ExternalAPIError{StatusCode: 500, Message: "server error"},
			expectedStatus: 503,
			expectedInMsg:  "External service error",
		},
		{
			name:           "ExternalAPIError with 429 returns 429",
			input:          &errors.ExternalAPIError{StatusCode: 429, Message: "rate limited"},
			expectedStatus: 429,
			expectedInMsg:  "Rate limited by external service",
		},
		{
			name:           "ExternalAPIError with 404 returns 400",
			input:          &errors.ExternalAPIError{StatusCode: 404, Message: "not found"},
			expectedStatus: 400,
			expectedInMsg:  "External service request error",
		},
		{
			name:           "ExternalAPIError with unexpected status returns 500",
			input:          &errors.ExternalAPIError{StatusCode: 200, Message: "ok but error"},
			expectedStatus: 500,
			expectedInMsg:  "Unexpected external service response",
		},
		{
			name:           "wrapped ExternalAPIError keeps its mapping",
			input:          fmt.Errorf("fetch original page: %w", &errors.ExternalAPIError{StatusCode: 502}),
			expectedStatus: 503,
			expectedInMsg:  "External service error",
		},
		{
			name:           "wrapped ValidationError returns 400",
			input:          fmt.Errorf("context: %w", &errors.ValidationError{Field: "link", Message: "required"}),
			expectedStatus: 400,
			expectedInMsg:  "'link': required",
		},
		{
			name:           "unknown error returns 500",
			input:          fmt.Errorf("some unknown error"),
			expectedStatus: 500,
			expectedInMsg:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := toHumaError(tt.input)

			humaErr, ok := result.(*huma.ErrorModel)
			require.True(t, ok, "Expected huma.ErrorModel")
			assert.Equal(t, tt.expectedStatus, humaErr.Status)
			assert.Contains(t, humaErr.Detail, tt.expectedInMsg)
		})
	}
}

func TestToHumaError_Nil(t *testing.T) {
	assert.Nil(t, toHumaError(nil))
}
