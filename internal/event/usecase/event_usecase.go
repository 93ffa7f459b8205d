package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/coursehook/internal/database"
	apperrors "github.com/allisson/coursehook/internal/errors"
	eventDomain "github.com/allisson/coursehook/internal/event/domain"
)

// eventUseCase implements EventUseCase on top of an EventRepository.
type eventUseCase struct {
	txManager   database.TxManager
	eventRepo   EventRepository
	maxAttempts int
	now         func() time.Time
}

// Append validates the input and stores a new PENDING event.
func (e *eventUseCase) Append(
	ctx context.Context,
	input *eventDomain.AppendEventInput,
) (*eventDomain.Event, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	event, err := eventDomain.NewEvent(
		input.Type,
		input.AffectedObject,
		input.CourseID,
		input.EntityID,
		input.RelatedEntityID,
		e.now(),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate event id")
	}

	if err := e.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// PendingEvents returns the oldest undelivered events. Every call queries the store again.
func (e *eventUseCase) PendingEvents(ctx context.Context, limit int) ([]*eventDomain.Event, error) {
	if limit <= 0 {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "limit must be positive, got %d", limit)
	}
	return e.eventRepo.ListEligible(ctx, limit)
}

// MarkDelivered applies the DELIVERED transition to every event in one transaction.
func (e *eventUseCase) MarkDelivered(
	ctx context.Context,
	eventIDs ...uuid.UUID,
) ([]*eventDomain.Event, error) {
	return e.transition(ctx, eventIDs, func(event *eventDomain.Event, now time.Time) bool {
		return event.MarkDelivered(now)
	})
}

// MarkFailed applies a failed attempt to every event in one transaction.
func (e *eventUseCase) MarkFailed(
	ctx context.Context,
	reason string,
	eventIDs ...uuid.UUID,
) ([]*eventDomain.Event, error) {
	return e.transition(ctx, eventIDs, func(event *eventDomain.Event, now time.Time) bool {
		return event.MarkFailed(now, reason, e.maxAttempts)
	})
}

// transition locks each event, applies fn and persists the events fn changed.
// A missing id aborts the whole batch with ErrEventNotFound.
func (e *eventUseCase) transition(
	ctx context.Context,
	eventIDs []uuid.UUID,
	fn func(event *eventDomain.Event, now time.Time) bool,
) ([]*eventDomain.Event, error) {
	changed := make([]*eventDomain.Event, 0, len(eventIDs))
	if len(eventIDs) == 0 {
		return changed, nil
	}

	err := e.txManager.WithTx(ctx, func(ctx context.Context) error {
		now := e.now()
		seen := make(map[uuid.UUID]struct{}, len(eventIDs))

		for _, eventID := range eventIDs {
			if _, ok := seen[eventID]; ok {
				continue
			}
			seen[eventID] = struct{}{}

			event, err := e.eventRepo.GetForUpdate(ctx, eventID)
			if err != nil {
				return err
			}

			if !fn(event, now) {
				continue
			}

			if err := e.eventRepo.Update(ctx, event); err != nil {
				return err
			}
			changed = append(changed, event)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return changed, nil
}

// Get retrieves a single event.
func (e *eventUseCase) Get(ctx context.Context, eventID uuid.UUID) (*eventDomain.Event, error) {
	return e.eventRepo.Get(ctx, eventID)
}

// List returns events ordered by creation time, optionally filtered by delivery state.
func (e *eventUseCase) List(
	ctx context.Context,
	state *eventDomain.DeliveryState,
	offset, limit int,
) ([]*eventDomain.Event, error) {
	return e.eventRepo.List(ctx, state, offset, limit)
}

// Requeue gives an abandoned event a fresh chance at delivery.
func (e *eventUseCase) Requeue(ctx context.Context, eventID uuid.UUID) (*eventDomain.Event, error) {
	var event *eventDomain.Event

	err := e.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		event, err = e.eventRepo.GetForUpdate(ctx, eventID)
		if err != nil {
			return err
		}

		if err := event.Requeue(e.now()); err != nil {
			return err
		}

		return e.eventRepo.Update(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	return event, nil
}

// Purge removes delivered events older than the given number of days.
func (e *eventUseCase) Purge(ctx context.Context, olderThanDays int, dryRun bool) (int64, error) {
	if olderThanDays < 0 {
		return 0, apperrors.Wrap(
			apperrors.ErrInvalidInput,
			fmt.Sprintf("days must be a positive number, got: %d", olderThanDays),
		)
	}

	cutoff := e.now().AddDate(0, 0, -olderThanDays)

	if dryRun {
		return e.eventRepo.CountDeliveredBefore(ctx, cutoff)
	}
	return e.eventRepo.DeleteDeliveredBefore(ctx, cutoff)
}

// NewEventUseCase creates a new EventUseCase. Events are abandoned once their attempt
// count reaches maxAttempts.
func NewEventUseCase(
	txManager database.TxManager,
	eventRepo EventRepository,
	maxAttempts int,
) EventUseCase {
	return &eventUseCase{
		txManager:   txManager,
		eventRepo:   eventRepo,
		maxAttempts: maxAttempts,
		now:         func() time.Time { return time.Now().UTC() },
	}
}
