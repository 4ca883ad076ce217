// Package errors defines custom error types for better error handling and debugging.
// StreamError provides context-aware error reporting with type classification.
package errors

import (
	stderrors "errors"
	"fmt"
)

// StreamError represents errors that occur during stream resolution
type StreamError struct {
	Type    string
	Message string
	Cause   error
}

func (e *StreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *StreamError) Unwrap() error {
	return e.Cause
}

// Error type constants
const (
	ErrorTypeConfigurationInvalid = "CONFIGURATION_INVALID"
	ErrorTypeAPIKeyMissing        = "API_KEY_MISSING"
	ErrorTypeParse                = "PARSE_ERROR"
	ErrorTypeMappingMiss          = "MAPPING_MISS"
	ErrorTypeTransport            = "TRANSPORT_ERROR"
	ErrorTypeFormatDrift          = "UPSTREAM_FORMAT_DRIFT"
	ErrorTypeDebridFailed         = "DEBRID_FAILED"
)

// NewStreamError creates a new StreamError
func NewStreamError(errorType, message string, cause error) *StreamError {
	return &StreamError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigurationError creates a configuration-related error
func NewConfigurationError(message string, cause error) *StreamError {
	return NewStreamError(ErrorTypeConfigurationInvalid, message, cause)
}

// NewAPIKeyMissingError creates an API key missing error
func NewAPIKeyMissingError(service string) *StreamError {
	return NewStreamError(ErrorTypeAPIKeyMissing, fmt.Sprintf("API key missing for %s", service), nil)
}

// NewParseError reports a malformed stream identifier
func NewParseError(id, reason string) *StreamError {
	return NewStreamError(ErrorTypeParse, fmt.Sprintf("invalid identifier %q: %s", id, reason), nil)
}

// NewMappingMissError reports a show key with no configured listing URL
func NewMappingMissError(showKey string) *StreamError {
	return NewStreamError(ErrorTypeMappingMiss, fmt.Sprintf("no mapping for %s", showKey), nil)
}

// NewTransportError wraps a network failure against url
func NewTransportError(url string, cause error) *StreamError {
	return NewStreamError(ErrorTypeTransport, fmt.Sprintf("request to %s failed", url), cause)
}

// NewFormatDriftError reports that an upstream page no longer has the
// expected anchors
func NewFormatDriftError(url, expected string) *StreamError {
	return NewStreamError(ErrorTypeFormatDrift, fmt.Sprintf("%s: no %s found", url, expected), nil)
}

// NewDebridError creates a debrid failure error
func NewDebridError(message string, cause error) *StreamError {
	return NewStreamError(ErrorTypeDebridFailed, message, cause)
}

// IsType reports whether err is, or wraps, a StreamError of the given type.
func IsType(err error, errorType string) bool {
	var se *StreamError
	if stderrors.As(err, &se) {
		return se.Type == errorType
	}
	return false
}
