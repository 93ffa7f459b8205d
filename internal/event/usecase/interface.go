// Package usecase implements the event log: recording course change-events and tracking
// their webhook delivery state. Every state change of a batch happens in one transaction.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	eventDomain "github.com/allisson/coursehook/internal/event/domain"
)

// EventRepository defines the interface for Event persistence operations.
type EventRepository interface {
	Create(ctx context.Context, event *eventDomain.Event) error
	Get(ctx context.Context, eventID uuid.UUID) (*eventDomain.Event, error)
	// GetForUpdate reads an event and locks its row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, eventID uuid.UUID) (*eventDomain.Event, error)
	Update(ctx context.Context, event *eventDomain.Event) error
	// ListEligible returns PENDING and FAILED events ordered by creation time then id.
	ListEligible(ctx context.Context, limit int) ([]*eventDomain.Event, error)
	List(
		ctx context.Context,
		state *eventDomain.DeliveryState,
		offset, limit int,
	) ([]*eventDomain.Event, error)
	CountDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// EventUseCase defines the event log operations.
type EventUseCase interface {
	// Append records a new PENDING event.
	Append(ctx context.Context, input *eventDomain.AppendEventInput) (*eventDomain.Event, error)

	// PendingEvents returns up to limit events still awaiting delivery, oldest first.
	PendingEvents(ctx context.Context, limit int) ([]*eventDomain.Event, error)

	// MarkDelivered marks the events as delivered and returns the ones this call changed.
	// Either every id is applied or none is.
	MarkDelivered(ctx context.Context, eventIDs ...uuid.UUID) ([]*eventDomain.Event, error)

	// MarkFailed records a failed attempt for the events and returns the ones this call
	// changed. Events reaching the attempt limit come back ABANDONED.
	MarkFailed(ctx context.Context, reason string, eventIDs ...uuid.UUID) ([]*eventDomain.Event, error)

	Get(ctx context.Context, eventID uuid.UUID) (*eventDomain.Event, error)
	List(
		ctx context.Context,
		state *eventDomain.DeliveryState,
		offset, limit int,
	) ([]*eventDomain.Event, error)

	// Requeue moves an ABANDONED event back to PENDING.
	Requeue(ctx context.Context, eventID uuid.UUID) (*eventDomain.Event, error)

	// Purge deletes DELIVERED events delivered more than olderThanDays days ago.
	// With dryRun it only counts them.
	Purge(ctx context.Context, olderThanDays int, dryRun bool) (int64, error)
}
