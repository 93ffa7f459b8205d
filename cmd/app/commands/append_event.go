package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	eventDomain "github.com/allisson/coursehook/internal/event/domain"
	"github.com/allisson/coursehook/internal/event/http/dto"
	eventUseCase "github.com/allisson/coursehook/internal/event/usecase"
)

// AppendEventArgs carries the append-event flags.
type AppendEventArgs struct {
	Type            string
	AffectedObject  string
	CourseID        string
	EntityID        string
	RelatedEntityID string
}

// RunAppendEvent records a course change-event in the event log.
// An empty RelatedEntityID is stored as absent.
func RunAppendEvent(
	ctx context.Context,
	useCase eventUseCase.EventUseCase,
	logger *slog.Logger,
	writer io.Writer,
	args AppendEventArgs,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	input := &eventDomain.AppendEventInput{
		Type:           eventDomain.EventType(args.Type),
		AffectedObject: eventDomain.AffectedObject(args.AffectedObject),
		CourseID:       args.CourseID,
		EntityID:       args.EntityID,
	}
	if args.RelatedEntityID != "" {
		related := args.RelatedEntityID
		input.RelatedEntityID = &related
	}

	event, err := useCase.Append(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	logger.Info("event appended",
		slog.String("event_id", event.ID.String()),
		slog.String("course_id", event.CourseID),
	)

	if format == "json" {
		return writeJSON(writer, dto.MapEventToResponse(event))
	}

	_, err = fmt.Fprintf(writer, "Appended event %s for course %s (%s %s)\n",
		event.ID, event.CourseID, event.Type, event.AffectedObject)
	return err
}
