package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	eventDomain "github.com/allisson/coursehook/internal/event/domain"
	"github.com/allisson/coursehook/internal/metrics"
)

// eventUseCaseWithMetrics decorates EventUseCase with metrics instrumentation.
type eventUseCaseWithMetrics struct {
	next    EventUseCase
	metrics metrics.BusinessMetrics
}

// NewEventUseCaseWithMetrics wraps an EventUseCase with metrics recording.
func NewEventUseCaseWithMetrics(useCase EventUseCase, m metrics.BusinessMetrics) EventUseCase {
	return &eventUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (e *eventUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "events", operation, status)
	e.metrics.RecordDuration(ctx, "events", operation, time.Since(start), status)
}

// Append records metrics for event append operations.
func (e *eventUseCaseWithMetrics) Append(
	ctx context.Context,
	input *eventDomain.AppendEventInput,
) (*eventDomain.Event, error) {
	start := time.Now()
	event, err := e.next.Append(ctx, input)
	e.record(ctx, "append", start, err)
	return event, err
}

// PendingEvents records metrics for pending event fetches.
func (e *eventUseCaseWithMetrics) PendingEvents(ctx context.Context, limit int) ([]*eventDomain.Event, error) {
	start := time.Now()
	events, err := e.next.PendingEvents(ctx, limit)
	e.record(ctx, "pending_events", start, err)
	return events, err
}

// MarkDelivered records metrics for delivered batches.
func (e *eventUseCaseWithMetrics) MarkDelivered(
	ctx context.Context,
	eventIDs ...uuid.UUID,
) ([]*eventDomain.Event, error) {
	start := time.Now()
	events, err := e.next.MarkDelivered(ctx, eventIDs...)
	e.record(ctx, "mark_delivered", start, err)
	return events, err
}

// MarkFailed records metrics for failed batches.
func (e *eventUseCaseWithMetrics) MarkFailed(
	ctx context.Context,
	reason string,
	eventIDs ...uuid.UUID,
) ([]*eventDomain.Event, error) {
	start := time.Now()
	events, err := e.next.MarkFailed(ctx, reason, eventIDs...)
	e.record(ctx, "mark_failed", start, err)
	return events, err
}

// Get records metrics for event lookups.
func (e *eventUseCaseWithMetrics) Get(ctx context.Context, eventID uuid.UUID) (*eventDomain.Event, error) {
	start := time.Now()
	event, err := e.next.Get(ctx, eventID)
	e.record(ctx, "get", start, err)
	return event, err
}

// List records metrics for event listings.
func (e *eventUseCaseWithMetrics) List(
	ctx context.Context,
	state *eventDomain.DeliveryState,
	offset, limit int,
) ([]*eventDomain.Event, error) {
	start := time.Now()
	events, err := e.next.List(ctx, state, offset, limit)
	e.record(ctx, "list", start, err)
	return events, err
}

// Requeue records metrics for operator requeues.
func (e *eventUseCaseWithMetrics) Requeue(ctx context.Context, eventID uuid.UUID) (*eventDomain.Event, error) {
	start := time.Now()
	event, err := e.next.Requeue(ctx, eventID)
	e.record(ctx, "requeue", start, err)
	return event, err
}

// Purge records metrics for purge runs.
func (e *eventUseCaseWithMetrics) Purge(ctx context.Context, olderThanDays int, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := e.next.Purge(ctx, olderThanDays, dryRun)
	e.record(ctx, "purge", start, err)
	return count, err
}
