// ABOUTME: Logger contract used across the reader core
// ABOUTME: NopLogger discards everything and is the default when none is given

package interfaces

// Logger is the structured logger used throughout the reader core.
// Fields carry the URL, reason and record identity of the step being logged.
//
// Example usage:
//
//	logger.Info("Reader load started", map[string]interface{}{
//		"url":    "https://example.com/article",
//		"reason": "navigation committed",
//	})
type Logger interface {
	// Debug logs detailed tracing of state machine transitions.
	Debug(msg string, fields map[string]interface{})

	// Info logs general informational messages.
	Info(msg string, fields map[string]interface{})

	// Warn logs recoverable problems such as a skipped site rule.
	Warn(msg string, fields map[string]interface{})

	// Error logs failures, for example a store write that did not commit.
	Error(msg string, fields map[string]interface{})
}

// NopLogger discards everything. Useful as a default and in tests.
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}
