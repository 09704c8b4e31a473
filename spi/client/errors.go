package client

import (
	"fmt"

	"github.com/go-errors/errors"
)

const (
	ReasonNotFound     = "notFound"
	ReasonInvalid      = "invalid"
	ReasonDuplicate    = "duplicate"
	ReasonBackendError = "backendError"
	ReasonStopped      = "stopped"
)

// Error is a structured client failure. Reason carries the well
// known classification, Message the human readable detail from
// the backing store.
type Error struct {
	Reason  string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func NewError(
	reason, format string, args ...any,
) *Error {

	return &Error{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// AsClientError unwraps err to the structured client error if
// one is present in its chain
func AsClientError(
	err error,
) (*Error, bool) {

	var clientError *Error
	if errors.As(err, &clientError) {
		return clientError, true
	}
	return nil, false
}

func IsNotFound(
	err error,
) bool {

	if clientError, ok := AsClientError(err); ok {
		return clientError.Reason == ReasonNotFound
	}
	return false
}
