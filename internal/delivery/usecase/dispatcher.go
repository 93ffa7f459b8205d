package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	deliveryDomain "github.com/allisson/coursehook/internal/delivery/domain"
	deliveryService "github.com/allisson/coursehook/internal/delivery/service"
	endpointUseCase "github.com/allisson/coursehook/internal/endpoint/usecase"
	apperrors "github.com/allisson/coursehook/internal/errors"
	eventDomain "github.com/allisson/coursehook/internal/event/domain"
	eventUseCase "github.com/allisson/coursehook/internal/event/usecase"
	"github.com/allisson/coursehook/internal/metrics"
)

// dispatcher implements Dispatcher.
type dispatcher struct {
	eventUseCase eventUseCase.EventUseCase
	registry     endpointUseCase.EndpointRegistry
	sender       deliveryService.Sender
	archive      deliveryService.DeadLetterArchive
	metrics      metrics.BusinessMetrics
	logger       *slog.Logger
}

// Dispatch resolves the course endpoint, sends the batch and marks every event with
// the outcome of that single attempt.
func (d *dispatcher) Dispatch(ctx context.Context, courseID string, events []*eventDomain.Event) error {
	start := time.Now()
	err := d.dispatch(ctx, courseID, events)

	status := "success"
	if err != nil {
		status = "error"
	}
	d.metrics.RecordOperation(ctx, "delivery", "dispatch", status)
	d.metrics.RecordDuration(ctx, "delivery", "dispatch", time.Since(start), status)

	return err
}

func (d *dispatcher) dispatch(ctx context.Context, courseID string, events []*eventDomain.Event) error {
	if len(events) == 0 {
		return nil
	}

	url, found, err := d.registry.EndpointFor(ctx, courseID)
	if err != nil {
		d.logger.Warn("endpoint lookup failed, leaving events for a later tick",
			slog.String("course_id", courseID),
			slog.Int("count", len(events)),
			slog.Any("error", err),
		)
		return apperrors.Wrapf(err, "failed to look up endpoint for course %s", courseID)
	}

	ids := eventIDs(events)
	// Outcomes are recorded even when ctx is cancelled mid-request.
	markCtx := context.WithoutCancel(ctx)

	if !found {
		if _, err := d.eventUseCase.MarkDelivered(markCtx, ids...); err != nil {
			return err
		}
		d.metrics.RecordEvents(ctx, metrics.OutcomeSkipped, len(ids))
		d.logger.Debug("no endpoint configured, events marked delivered",
			slog.String("course_id", courseID),
			slog.Int("count", len(ids)),
		)
		return nil
	}

	delivery, err := deliveryDomain.NewDelivery(courseID, events)
	if err != nil {
		return apperrors.Wrap(err, "failed to build delivery")
	}

	sendErr := d.sender.Send(ctx, url, delivery)
	if sendErr == nil {
		if _, err := d.eventUseCase.MarkDelivered(markCtx, ids...); err != nil {
			return err
		}
		d.metrics.RecordEvents(ctx, metrics.OutcomeDelivered, len(ids))
		d.logger.Info("events delivered",
			slog.String("course_id", courseID),
			slog.String("delivery_id", delivery.ID.String()),
			slog.Int("count", len(ids)),
		)
		return nil
	}

	// A shutdown interrupting the request is not an attempt; the batch stays eligible.
	if ctx.Err() != nil {
		d.logger.Warn("delivery interrupted, leaving events for a later tick",
			slog.String("course_id", courseID),
			slog.String("delivery_id", delivery.ID.String()),
			slog.Int("count", len(ids)),
			slog.Any("error", sendErr),
		)
		return apperrors.Wrapf(sendErr, "delivery to course %s interrupted", courseID)
	}

	changed, err := d.eventUseCase.MarkFailed(markCtx, sendErr.Error(), ids...)
	if err != nil {
		return err
	}

	abandoned := make([]*eventDomain.Event, 0)
	for _, event := range changed {
		if event.DeliveryState == eventDomain.DeliveryStateAbandoned {
			abandoned = append(abandoned, event)
		}
	}

	d.metrics.RecordEvents(ctx, metrics.OutcomeFailed, len(changed)-len(abandoned))
	d.logger.Warn("webhook delivery failed",
		slog.String("course_id", courseID),
		slog.String("delivery_id", delivery.ID.String()),
		slog.Int("count", len(ids)),
		slog.Any("error", sendErr),
	)

	if len(abandoned) > 0 {
		d.abandon(ctx, courseID, abandoned)
	}

	return nil
}

// abandon reports events that will never be retried and hands them to the archive.
func (d *dispatcher) abandon(ctx context.Context, courseID string, events []*eventDomain.Event) {
	d.metrics.RecordEvents(ctx, metrics.OutcomeAbandoned, len(events))

	for _, event := range events {
		d.logger.Error("event abandoned",
			slog.String("course_id", courseID),
			slog.String("event_id", event.ID.String()),
			slog.Int("attempt_count", event.AttemptCount),
			slog.Any("error", deliveryDomain.ErrAbandoned),
		)
	}

	if err := d.archive.Archive(context.WithoutCancel(ctx), courseID, events); err != nil {
		d.logger.Error("failed to archive abandoned events",
			slog.String("course_id", courseID),
			slog.Int("count", len(events)),
			slog.Any("error", err),
		)
	}
}

func eventIDs(events []*eventDomain.Event) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(events))
	for _, event := range events {
		ids = append(ids, event.ID)
	}
	return ids
}

// NewDispatcher creates a Dispatcher. A nil archive discards abandoned events.
func NewDispatcher(
	eventUseCase eventUseCase.EventUseCase,
	registry endpointUseCase.EndpointRegistry,
	sender deliveryService.Sender,
	archive deliveryService.DeadLetterArchive,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) Dispatcher {
	if archive == nil {
		archive = deliveryService.NewNoOpDeadLetterArchive()
	}
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &dispatcher{
		eventUseCase: eventUseCase,
		registry:     registry,
		sender:       sender,
		archive:      archive,
		metrics:      businessMetrics,
		logger:       logger,
	}
}
