package api

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRequest indicates a malformed or incomplete request payload.
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthorized indicates a missing or invalid sweep token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMethodNotAllowed indicates an unsupported HTTP method.
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// wrap annotates err with the operation that produced it.
func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// wrapKind attaches a sentinel kind alongside the underlying cause so
// callers can match with errors.Is while keeping the detail.
func wrapKind(op string, kind, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", op, kind)
	}
	return fmt.Errorf("%s: %w: %v", op, kind, err)
}
