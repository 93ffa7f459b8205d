package domain

import (
	"github.com/allisson/coursehook/internal/errors"
)

// Event-specific error definitions.
var (
	// ErrEventNotFound indicates no event exists with the given id.
	ErrEventNotFound = errors.Wrap(errors.ErrNotFound, "event not found")

	// ErrInvalidTransition indicates the requested delivery state change is not allowed
	// from the event's current state.
	ErrInvalidTransition = errors.Wrap(errors.ErrConflict, "invalid delivery state transition")
)
