// Package errors provides shared error types for the Wikipedia upstream client.
package errors

import (
	"errors"
	"fmt"
)

// UpstreamStatusError indicates the content API answered with a non-success status.
type UpstreamStatusError struct {
	Action     string // "parse", "imageinfo"
	StatusCode int
	Body       string // truncated response body, may be empty
}

func (e *UpstreamStatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: upstream returned status %d: %s", e.Action, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: upstream returned status %d", e.Action, e.StatusCode)
}

// NewUpstreamStatusError creates an UpstreamStatusError.
func NewUpstreamStatusError(action string, statusCode int, body string) *UpstreamStatusError {
	return &UpstreamStatusError{
		Action:     action,
		StatusCode: statusCode,
		Body:       body,
	}
}

// EnvelopeError indicates the response body did not have the expected shape.
type EnvelopeError struct {
	Action string // "parse", "imageinfo"
	Reason string // human-readable description of what was missing
	Err    error  // underlying decode error, if any
}

func (e *EnvelopeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: malformed response: %s: %v", e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: malformed response: %s", e.Action, e.Reason)
}

func (e *EnvelopeError) Unwrap() error {
	return e.Err
}

// NewEnvelopeError creates an EnvelopeError without an underlying cause.
func NewEnvelopeError(action, reason string) *EnvelopeError {
	return &EnvelopeError{
		Action: action,
		Reason: reason,
	}
}

// WrapEnvelopeError creates an EnvelopeError that wraps a decode failure.
func WrapEnvelopeError(action, reason string, err error) *EnvelopeError {
	return &EnvelopeError{
		Action: action,
		Reason: reason,
		Err:    err,
	}
}

// IsUpstreamStatus returns true if err is or wraps an UpstreamStatusError.
func IsUpstreamStatus(err error) bool {
	var target *UpstreamStatusError
	return errors.As(err, &target)
}

// IsEnvelope returns true if err is or wraps an EnvelopeError.
func IsEnvelope(err error) bool {
	var target *EnvelopeError
	return errors.As(err, &target)
}

// Reason classifies an upstream failure into a short metric label.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case IsUpstreamStatus(err):
		return "status"
	case IsEnvelope(err):
		return "envelope"
	default:
		return "transport"
	}
}
