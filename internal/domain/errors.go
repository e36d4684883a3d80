package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the client failure taxonomy. Callers distinguish
// "daemon said no" (StatusError) from "daemon said something we can't
// parse" (ErrDecodeFailed) from "daemon unreachable" (ErrDaemonUnavailable).
var (
	// ErrInvalidBaseURL means the configured daemon URL does not parse;
	// no request is attempted.
	ErrInvalidBaseURL = errors.New("invalid daemon base URL")

	// ErrDaemonUnavailable covers connection refusal, DNS failure and
	// request timeout.
	ErrDaemonUnavailable = errors.New("automation daemon unreachable")

	// ErrDecodeFailed means a response body was not valid JSON or was
	// missing a structurally required field.
	ErrDecodeFailed = errors.New("failed to decode daemon response")

	// ErrValidation flags caller-supplied input rejected before any
	// network call.
	ErrValidation = errors.New("invalid input")

	// ErrActionBlocked means a guardrail rule refused to dispatch a plan
	// action.
	ErrActionBlocked = errors.New("action blocked by guardrail")
)

// StatusError is a daemon response outside the 200-299 range.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("daemon responded with status %d", e.Code)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// IsNotFound reports whether err is a daemon 404.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}
