// Package service provides the webhook transport, per-course in-flight guards and
// the dead-letter archive used by the delivery pipeline.
package service

import (
	"context"

	deliveryDomain "github.com/allisson/coursehook/internal/delivery/domain"
	eventDomain "github.com/allisson/coursehook/internal/event/domain"
)

// Sender performs one outbound webhook request for a delivery.
// Transport failures and non-2xx responses are returned as *DeliveryError.
type Sender interface {
	Send(ctx context.Context, url string, delivery *deliveryDomain.Delivery) error
}

// InflightGuard ensures at most one dispatch per course runs at a time.
type InflightGuard interface {
	// TryAcquire marks courseID as in flight. It returns false without blocking
	// when a dispatch for the course is already running.
	TryAcquire(ctx context.Context, courseID string) (bool, error)

	// Release clears the in-flight mark of courseID.
	Release(ctx context.Context, courseID string) error
}

// DeadLetterArchive stores abandoned events for later inspection or replay.
type DeadLetterArchive interface {
	Archive(ctx context.Context, courseID string, events []*eventDomain.Event) error
}
