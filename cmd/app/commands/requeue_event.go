package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/allisson/coursehook/internal/event/http/dto"
	eventUseCase "github.com/allisson/coursehook/internal/event/usecase"
)

// RunRequeueEvent moves an abandoned event back to PENDING so the next tick retries it.
func RunRequeueEvent(
	ctx context.Context,
	useCase eventUseCase.EventUseCase,
	logger *slog.Logger,
	writer io.Writer,
	eventID string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	id, err := uuid.Parse(eventID)
	if err != nil {
		return fmt.Errorf("invalid event id %q: %w", eventID, err)
	}

	event, err := useCase.Requeue(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to requeue event: %w", err)
	}

	logger.Info("event requeued",
		slog.String("event_id", event.ID.String()),
		slog.Int("attempt_count", event.AttemptCount),
	)

	if format == "json" {
		return writeJSON(writer, dto.MapEventToResponse(event))
	}

	_, err = fmt.Fprintf(writer, "Requeued event %s (state %s, %d previous attempt(s))\n",
		event.ID, event.DeliveryState, event.AttemptCount)
	return err
}
