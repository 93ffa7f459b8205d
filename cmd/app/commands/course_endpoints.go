package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	endpointDomain "github.com/allisson/coursehook/internal/endpoint/domain"
	endpointUseCase "github.com/allisson/coursehook/internal/endpoint/usecase"
)

type courseEndpointOutput struct {
	CourseID  string    `json:"course_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func mapCourseEndpoint(endpoint *endpointDomain.CourseEndpoint) courseEndpointOutput {
	return courseEndpointOutput{
		CourseID:  endpoint.CourseID,
		URL:       endpoint.URL,
		CreatedAt: endpoint.CreatedAt,
		UpdatedAt: endpoint.UpdatedAt,
	}
}

// RunSetCourseEndpoint registers or replaces the webhook URL of a course.
func RunSetCourseEndpoint(
	ctx context.Context,
	useCase endpointUseCase.EndpointUseCase,
	logger *slog.Logger,
	writer io.Writer,
	courseID, url string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	endpoint, err := useCase.Set(ctx, &endpointDomain.SetEndpointInput{
		CourseID: courseID,
		URL:      url,
	})
	if err != nil {
		return fmt.Errorf("failed to set course endpoint: %w", err)
	}

	logger.Info("course endpoint set", slog.String("course_id", endpoint.CourseID))

	if format == "json" {
		return writeJSON(writer, mapCourseEndpoint(endpoint))
	}

	_, err = fmt.Fprintf(writer, "Course %s now delivers to %s\n", endpoint.CourseID, endpoint.URL)
	return err
}

// RunRemoveCourseEndpoint deletes the webhook URL of a course. Later events of the
// course are marked delivered without a webhook call.
func RunRemoveCourseEndpoint(
	ctx context.Context,
	useCase endpointUseCase.EndpointUseCase,
	logger *slog.Logger,
	writer io.Writer,
	courseID string,
) error {
	if err := useCase.Remove(ctx, courseID); err != nil {
		return fmt.Errorf("failed to remove course endpoint: %w", err)
	}

	logger.Info("course endpoint removed", slog.String("course_id", courseID))

	_, err := fmt.Fprintf(writer, "Removed endpoint of course %s\n", courseID)
	return err
}

// RunListCourseEndpoints prints registered endpoints ordered by course id.
func RunListCourseEndpoints(
	ctx context.Context,
	useCase endpointUseCase.EndpointUseCase,
	writer io.Writer,
	offset, limit int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	endpoints, err := useCase.List(ctx, offset, limit)
	if err != nil {
		return fmt.Errorf("failed to list course endpoints: %w", err)
	}

	if format == "json" {
		data := make([]courseEndpointOutput, 0, len(endpoints))
		for _, endpoint := range endpoints {
			data = append(data, mapCourseEndpoint(endpoint))
		}
		return writeJSON(writer, map[string]any{"data": data})
	}

	if len(endpoints) == 0 {
		_, err = fmt.Fprintln(writer, "No course endpoints registered")
		return err
	}

	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "COURSE\tURL\tUPDATED")
	for _, endpoint := range endpoints {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n",
			endpoint.CourseID, endpoint.URL, endpoint.UpdatedAt.UTC().Format(time.RFC3339))
	}
	return tw.Flush()
}
