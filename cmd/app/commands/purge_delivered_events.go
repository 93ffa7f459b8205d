package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	eventUseCase "github.com/allisson/coursehook/internal/event/usecase"
)

// RunPurgeDeliveredEvents deletes events delivered more than days days ago.
// Supports dry-run mode to preview deletion count and both text/JSON output formats.
func RunPurgeDeliveredEvents(
	ctx context.Context,
	useCase eventUseCase.EventUseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("purging delivered events",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	count, err := useCase.Purge(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to purge delivered events: %w", err)
	}

	logger.Info("purge completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"count":   count,
			"days":    days,
			"dry_run": dryRun,
		})
	}

	if dryRun {
		_, err = fmt.Fprintf(writer, "Dry-run mode: Would delete %d delivered event(s) older than %d day(s)\n", count, days)
	} else {
		_, err = fmt.Fprintf(writer, "Successfully deleted %d delivered event(s) older than %d day(s)\n", count, days)
	}
	return err
}
