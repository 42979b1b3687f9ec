package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures so handlers can map them to a status
// without string matching.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1 // malformed input, user can correct and resubmit
	KindStateConflict                   // stale client view of the poll lifecycle
	KindPermissionDenied
	KindNotFound
	KindUnavailable // results requested before the poll finished
)

// Error is the single inspectable error type the service layer returns. Code
// is stable and machine-readable; Message is for humans.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Lifecycle and submission conflicts. These are fixed conditions, so they are
// shared sentinels and work with errors.Is.
var (
	ErrAlreadyStarted = &Error{KindStateConflict, "AlreadyStarted", "poll has already been started"}
	ErrAlreadyEnded   = &Error{KindStateConflict, "AlreadyEnded", "poll has already been ended"}
	ErrNotStarted     = &Error{KindStateConflict, "NotStarted", "poll must be started before it can be ended"}
	ErrAlreadyVoted   = &Error{KindStateConflict, "AlreadyVoted", "participant has already voted"}
	ErrPollNotActive  = &Error{KindStateConflict, "PollNotActive", "poll is not open for voting"}

	ErrNotFound           = &Error{KindNotFound, "NotFound", "not found"}
	ErrPermissionDenied   = &Error{KindPermissionDenied, "PermissionDenied", "not allowed"}
	ErrResultsUnavailable = &Error{KindUnavailable, "ResultsUnavailable", "results are available only for finished polls"}
)

func validationError(code, format string, args ...interface{}) *Error {
	return &Error{KindValidation, code, fmt.Sprintf(format, args...)}
}

// KindOf returns the error's kind, or 0 for errors from outside the service
// layer.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// CodeOf returns the stable error code, or "" for foreign errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
