// Package errors provides structured error types for logsift.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies specific error conditions
type ErrorCode string

const (
	// ErrCodeResolution marks an invalid or incomplete filter description
	// (inverted date range, inverted or zero-width hour window). It blocks a
	// fetch but is not an operational failure.
	ErrCodeResolution ErrorCode = "RESOLUTION_ERROR"

	// ErrCodeRetrieval marks a log source that could not be opened or queried.
	ErrCodeRetrieval ErrorCode = "RETRIEVAL_ERROR"

	// ErrCodeEncoding marks data that could not be serialized to the
	// requested export format.
	ErrCodeEncoding ErrorCode = "ENCODING_ERROR"

	// ErrCodeCompression marks a fault reported by the compressor while
	// wrapping an export payload.
	ErrCodeCompression ErrorCode = "COMPRESSION_ERROR"

	// ErrCodeSource marks a misconfigured or unknown log source adapter.
	ErrCodeSource ErrorCode = "SOURCE_ERROR"

	// ErrCodeConfig marks invalid CLI or config-file input.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"
)

// Error is the base error type for logsift
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
	Details map[string]interface{}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Wrap creates a new error wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
		Details: make(map[string]interface{}),
	}
}

// WithDetails adds details to an error
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail adds a single detail to an error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	e.Details[key] = value
	return e
}

// ResolutionError creates a filter resolution error
func ResolutionError(message string, details map[string]interface{}) *Error {
	return &Error{
		Code:    ErrCodeResolution,
		Message: message,
		Details: details,
	}
}

// RetrievalError creates a log retrieval error
func RetrievalError(source string, err error) *Error {
	return &Error{
		Code:    ErrCodeRetrieval,
		Message: fmt.Sprintf("failed to retrieve logs from %s", source),
		Cause:   err,
		Details: map[string]interface{}{
			"source": source,
		},
	}
}

// EncodingError creates a serialization error for the given format name
func EncodingError(format string, err error) *Error {
	return &Error{
		Code:    ErrCodeEncoding,
		Message: fmt.Sprintf("failed to encode logs as %s", format),
		Cause:   err,
		Details: map[string]interface{}{
			"format": format,
		},
	}
}

// CompressionError creates a compression error. The kind carries the
// compressor's fault category (stream, data, memory, version, buffer).
func CompressionError(kind string, err error) *Error {
	return &Error{
		Code:    ErrCodeCompression,
		Message: fmt.Sprintf("compression failed (%s)", kind),
		Cause:   err,
		Details: map[string]interface{}{
			"kind": kind,
		},
	}
}

// SourceError creates a source configuration error
func SourceError(sourceType string, err error) *Error {
	return &Error{
		Code:    ErrCodeSource,
		Message: fmt.Sprintf("log source %q is not usable", sourceType),
		Cause:   err,
		Details: map[string]interface{}{
			"source_type": sourceType,
		},
	}
}

// Is checks if the error (or any error in its chain) matches the given code
func Is(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
