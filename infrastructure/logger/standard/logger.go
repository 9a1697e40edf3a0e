// ABOUTME: Standard logger implementation using Go's standard log package
// ABOUTME: Provides leveled logging with JSON-encoded fields for environments without logrus

package standard

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func parseLevel(s string) level {
	switch strings.ToLower(s) {
	case "debug":
		return levelDebug
	case "warn", "warning":
		return levelWarn
	case "error":
		return levelError
	}
	return levelInfo
}

// StandardLogger implements the Logger interface using standard library
type StandardLogger struct {
	min   level
	debug *log.Logger
	info  *log.Logger
	warn  *log.Logger
	error *log.Logger
}

// NewStandardLogger creates a logger writing to stdout, errors to stderr.
func NewStandardLogger(minLevel string) *StandardLogger {
	return newLogger(os.Stdout, os.Stderr, minLevel)
}

// NewWriterLogger sends every level to w.
func NewWriterLogger(w io.Writer, minLevel string) *StandardLogger {
	return newLogger(w, w, minLevel)
}

func newLogger(out, errOut io.Writer, minLevel string) *StandardLogger {
	return &StandardLogger{
		min:   parseLevel(minLevel),
		debug: log.New(out, "[DEBUG] ", log.LstdFlags|log.Lmsgprefix),
		info:  log.New(out, "[INFO] ", log.LstdFlags|log.Lmsgprefix),
		warn:  log.New(out, "[WARN] ", log.LstdFlags|log.Lmsgprefix),
		error: log.New(errOut, "[ERROR] ", log.LstdFlags|log.Lmsgprefix),
	}
}

// Debug logs a debug message
func (l *StandardLogger) Debug(msg string, fields map[string]interface{}) {
	l.logWithFields(levelDebug, l.debug, msg, fields)
}

// Info logs an info message
func (l *StandardLogger) Info(msg string, fields map[string]interface{}) {
	l.logWithFields(levelInfo, l.info, msg, fields)
}

// Warn logs a warning message
func (l *StandardLogger) Warn(msg string, fields map[string]interface{}) {
	l.logWithFields(levelWarn, l.warn, msg, fields)
}

// Error logs an error message
func (l *StandardLogger) Error(msg string, fields map[string]interface{}) {
	l.logWithFields(levelError, l.error, msg, fields)
}

// logWithFields logs a message with structured fields
func (l *StandardLogger) logWithFields(lvl level, logger *log.Logger, msg string, fields map[string]interface{}) {
	if lvl < l.min {
		return
	}
	if len(fields) == 0 {
		logger.Println(msg)
		return
	}

	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		logger.Printf("%s (failed to marshal fields: %v)", msg, err)
		return
	}

	logger.Printf("%s %s", msg, string(fieldsJSON))
}
