package services

import (
	"errors"

	"github.com/dmitrijs2005/profilekeeper/internal/client/client"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
)

var (
	// ErrSessionMissing is wrapped by the inline error a page shows when
	// the session store lacks the identity it needs.
	ErrSessionMissing = errors.New("session missing")
	// ErrUploadInProgress is returned by a gallery upload started while
	// another one is running.
	ErrUploadInProgress = errors.New("upload already in progress")
	// ErrCancelled is returned when the user declines a confirmation.
	ErrCancelled = errors.New("cancelled by user")
)

// ValidationError is a client-side check that blocked a submission.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is makes every ValidationError match common.ErrorValidation.
func (e *ValidationError) Is(target error) bool { return target == common.ErrorValidation }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// PageError is a failure shown inline on the current page. Message is meant
// for the user; Err keeps the cause for logs and errors.Is.
type PageError struct {
	Message string
	Err     error
}

func (e *PageError) Error() string { return e.Message }

func (e *PageError) Unwrap() error { return e.Err }

// rejectedOr builds the page error for a failed call: a fixed message when
// the server answered success=false, otherwise the server's message or
// fallback.
func rejectedOr(err error, rejected, fallback string) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Rejected() {
		return &PageError{Message: rejected, Err: err}
	}
	return &PageError{Message: client.MessageOf(err, fallback), Err: err}
}

// serverMessageOr builds the page error for a failed call from the server's
// message, or fallback when there is none.
func serverMessageOr(err error, fallback string) error {
	return &PageError{Message: client.MessageOf(err, fallback), Err: err}
}
