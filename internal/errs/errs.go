package errs

import (
	"errors"
)

// Code is an application error code.
type Code string

const (
	InvalidArgument   Code = "invalid_argument"
	LocatorResolution Code = "locator_resolution"
	ReadinessTimeout  Code = "readiness_timeout"
	AssertionTimeout  Code = "assertion_timeout"
	EvidenceCapture   Code = "evidence_capture"
	Session           Code = "session"
	Internal          Code = "internal"
)

// Error is a coded application error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		if e.Err != nil {
			return e.Message + ": " + e.Err.Error()
		}
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a coded error with message.
func New(code Code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a coded error with message and cause.
func Wrap(code Code, message string, cause error) error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// CodeOf returns the error code, defaulting to internal.
func CodeOf(err error) Code {
	if err == nil {
		return Internal
	}
	var coded *Error
	if errors.As(err, &coded) {
		if coded.Code == "" {
			return Internal
		}
		return coded.Code
	}
	return Internal
}

// MessageOf returns a user-facing failure reason.
// If the error has no typed wrapper, returns "internal error" so raw driver
// errors never become the recorded scenario failure reason verbatim.
func MessageOf(err error) string {
	if err == nil {
		return string(Internal)
	}
	var coded *Error
	if errors.As(err, &coded) && coded.Message != "" {
		return coded.Message
	}
	return "internal error"
}

// ScenarioEnding reports whether the code aborts the current scenario.
// Evidence capture failures are logged locally and never end a scenario.
func ScenarioEnding(code Code) bool {
	return code != EvidenceCapture
}
