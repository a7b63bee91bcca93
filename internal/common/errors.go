package common

import (
	"errors"
	"fmt"
)

// Common application errors
var (
	// ErrStoreUnavailable means the durable store could not be opened.
	// Fatal at startup: the environment does not support the application.
	ErrStoreUnavailable = errors.New("durable store unavailable")

	// ErrNotFound means a mutation referenced a photo id that does not exist.
	ErrNotFound = errors.New("photo not found")

	// ErrEmptyOrder means a submission was attempted with no photos.
	ErrEmptyOrder = errors.New("order is empty")

	// ErrBusy means a mutation arrived while a submission was in flight.
	ErrBusy = errors.New("submission in progress")

	// Submission transport failures. All three surface to the caller as
	// "submission failed"; the distinction is for logging.
	ErrNetwork           = errors.New("network error")
	ErrServer            = errors.New("server error")
	ErrMalformedResponse = errors.New("malformed response")
)

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsSubmissionFailure reports whether err is one of the transport failure
// kinds that leave the order intact and allow a retry.
func IsSubmissionFailure(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrServer) || errors.Is(err, ErrMalformedResponse)
}
