package domain

import (
	"github.com/allisson/coursehook/internal/errors"
)

// ErrEndpointNotFound indicates no webhook endpoint is registered for the course.
var ErrEndpointNotFound = errors.Wrap(errors.ErrNotFound, "course endpoint not found")
