package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing entity and an actor without rights to it.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a per-event uniqueness rule would be broken.
	ErrDuplicate = errors.New("duplicate")
)

var (
	ErrValidation = errors.New("validation error")
)

// ServerError is the general server failure returned at a manager boundary.
// Its message names the failing operation; the cause is only reachable through Unwrap.
type ServerError struct {
	Op  string
	Msg string
	Err error
}

func (e *ServerError) Error() string {
	return e.Msg
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

// IsDomain reports whether err belongs to the taxonomy that propagates unchanged.
func IsDomain(err error) bool {
	var se *ServerError
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrValidation) ||
		errors.As(err, &se)
}

// Wrap passes domain errors through and turns anything else into a ServerError.
func Wrap(op, msg string, err error) error {
	if err == nil || IsDomain(err) {
		return err
	}
	return &ServerError{Op: op, Msg: fmt.Sprintf("unexpected error in %s", msg), Err: err}
}
