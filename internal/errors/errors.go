package errors

import (
	"fmt"
)

// Common error types
var (
	// Configuration errors
	ErrMissingAPIKey = New("API key is required")
	ErrMissingConfig = New("configuration is required")

	// Store errors
	ErrProjectNotFound = New("project not found")
	ErrStoreConnection = New("store connection failed")

	// Precondition errors surfaced to the user by the retry workflow
	ErrFeatureNotEntitled = New("feature is not available on the current plan")
	ErrMissingTranscript  = New("transcript is missing or empty")
	ErrNoChaptersDetected = New("transcript has no chapters")

	// Transcription errors
	ErrTranscriptionTimeout = New("transcription webhook timed out")

	// Step runtime errors
	ErrWaitNotSupported = New("waitForEvent is not available in sync mode")
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// WithCause attaches a cause while keeping the sentinel identity of e,
// so errors.Is against the sentinel keeps working.
func (e *Error) WithCause(cause error) error {
	return &Error{message: e.message, cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// TranscriptionFailed reports a terminal provider-side transcription failure.
func TranscriptionFailed(message string) error {
	if message == "" {
		message = "transcription failed"
	}
	return Newf("transcription failed: %s", message)
}

// TranscriptionIncomplete reports a fetched transcript whose status disagrees
// with the completion signal.
func TranscriptionIncomplete(status string) error {
	return Newf("transcription not completed (status: %s)", status)
}

// FeatureNotEntitled reports a generation attempt the current plan does not
// grant; detail carries the user-facing upgrade message.
func FeatureNotEntitled(detail string) error {
	return ErrFeatureNotEntitled.WithCause(New(detail))
}

// NoChaptersDetected reports a chapter-dependent job against a transcript
// without chapters. Short or topic-flat podcasts genuinely produce none.
func NoChaptersDetected(job string) error {
	return ErrNoChaptersDetected.WithCause(Newf("cannot generate %s: this podcast may be too short or lack distinct topics for chapter detection", job))
}
