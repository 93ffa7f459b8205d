package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	deliveryUseCase "github.com/allisson/coursehook/internal/delivery/usecase"
)

// RunWorker runs the delivery scheduler until ctx is cancelled. In-flight
// dispatches finish before it returns; cancellation is a clean stop.
func RunWorker(ctx context.Context, scheduler deliveryUseCase.Scheduler, logger *slog.Logger) error {
	logger.Info("starting delivery worker")

	err := scheduler.Start(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("delivery scheduler error: %w", err)
	}

	logger.Info("delivery worker stopped")
	return nil
}

// RunDispatchOnce runs a single scheduler tick and waits for the dispatches it started.
func RunDispatchOnce(
	ctx context.Context,
	scheduler deliveryUseCase.Scheduler,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	start := time.Now()
	if err := scheduler.Tick(ctx); err != nil {
		return fmt.Errorf("failed to run dispatch tick: %w", err)
	}
	scheduler.Wait()
	elapsed := time.Since(start)

	logger.Info("dispatch tick completed", slog.Duration("duration", elapsed))

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"status":      "completed",
			"duration_ms": elapsed.Milliseconds(),
		})
	}

	_, err := fmt.Fprintf(writer, "Dispatch tick completed in %s\n", elapsed.Round(time.Millisecond))
	return err
}
