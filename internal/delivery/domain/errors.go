package domain

import (
	"fmt"

	"github.com/allisson/coursehook/internal/errors"
)

var (
	// ErrDeliveryFailed matches every transport-level delivery failure.
	ErrDeliveryFailed = errors.New("webhook delivery failed")

	// ErrAbandoned marks events that reached the maximum number of delivery attempts.
	ErrAbandoned = errors.New("event abandoned after reaching max delivery attempts")
)

// DeliveryError describes a failed webhook request. StatusCode is set when the
// endpoint answered with a non-2xx status; Err is set for network failures and timeouts.
type DeliveryError struct {
	StatusCode int
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("webhook responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("webhook request failed: %v", e.Err)
}

// Unwrap returns the underlying transport error.
func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDeliveryFailed.
func (e *DeliveryError) Is(target error) bool {
	return target == ErrDeliveryFailed
}
