// ABOUTME: Custom error types for the reader core
// ABOUTME: Distinguishes expected extraction outcomes from store, URL and cache failures

package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalAPIError represents an error from a remote origin while fetching a page
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// ExtractionKind separates pages that are simply not articles from real failures.
type ExtractionKind string

const (
	ExtractionUnavailable ExtractionKind = "unavailable"
	ExtractionFailed      ExtractionKind = "failed"
)

// ExtractionError reports that no reader document could be produced for a URL.
type ExtractionError struct {
	Kind   ExtractionKind
	URL    string
	Reason string
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("readability %s for %s: %s", e.Kind, e.URL, e.Reason)
}

// URLMismatchError means a step's target no longer matches the live browser URL.
type URLMismatchError struct {
	Expected string
	Actual   string
}

// Error implements the error interface
func (e *URLMismatchError) Error() string {
	return fmt.Sprintf("url mismatch: expected %s, browser shows %s", e.Expected, e.Actual)
}

// CacheCorruptionError means stored full content decoded to an empty body.
type CacheCorruptionError struct {
	URL    string
	Reason string
}

// Error implements the error interface
func (e *CacheCorruptionError) Error() string {
	return fmt.Sprintf("cached content for %s is unusable: %s", e.URL, e.Reason)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// IsExtractionUnavailable checks for an ExtractionError of kind unavailable
func IsExtractionUnavailable(err error) bool {
	var extErr *ExtractionError
	return errors.As(err, &extErr) && extErr.Kind == ExtractionUnavailable
}

// IsExtractionFailed checks for an ExtractionError of kind failed
func IsExtractionFailed(err error) bool {
	var extErr *ExtractionError
	return errors.As(err, &extErr) && extErr.Kind == ExtractionFailed
}

// IsURLMismatch checks if an error is a URLMismatchError
func IsURLMismatch(err error) bool {
	var mismatch *URLMismatchError
	return errors.As(err, &mismatch)
}

// IsCacheCorruption checks if an error is a CacheCorruptionError
func IsCacheCorruption(err error) bool {
	var corrupt *CacheCorruptionError
	return errors.As(err, &corrupt)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
