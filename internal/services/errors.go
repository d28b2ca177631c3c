package services

import "errors"

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidResolution = errors.New("resolution must be release or refund")
)

// InvalidStateError is returned when an operation is attempted from a state
// that does not permit it. Callers must not retry without changing state.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

func invalidState(message string) *InvalidStateError {
	return &InvalidStateError{Message: message}
}
