package usecase

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/allisson/coursehook/internal/errors"
	customValidation "github.com/allisson/coursehook/internal/validation"
)

// StaticRegistry serves endpoints loaded once from configuration.
type StaticRegistry struct {
	endpoints map[string]string
}

// EndpointFor returns the configured URL of a course.
func (s *StaticRegistry) EndpointFor(ctx context.Context, courseID string) (string, bool, error) {
	url, ok := s.endpoints[courseID]
	return url, ok, nil
}

// Len returns the number of configured courses.
func (s *StaticRegistry) Len() int {
	return len(s.endpoints)
}

// ParseCourseEndpoints parses a comma-separated list of course_id=url pairs,
// e.g. "c1=https://a.example/hook,c2=https://b.example/hook". Blank entries are
// skipped; a course listed twice is rejected.
func ParseCourseEndpoints(raw string) (map[string]string, error) {
	endpoints := make(map[string]string)

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		courseID, url, ok := strings.Cut(entry, "=")
		courseID = strings.TrimSpace(courseID)
		url = strings.TrimSpace(url)
		if !ok || courseID == "" {
			return nil, apperrors.Wrap(
				apperrors.ErrInvalidInput,
				fmt.Sprintf("invalid course endpoint entry %q: expected course_id=url", entry),
			)
		}
		if !customValidation.IsWebhookURL(url) {
			return nil, apperrors.Wrap(
				apperrors.ErrInvalidInput,
				fmt.Sprintf("invalid webhook url for course %s", courseID),
			)
		}
		if _, exists := endpoints[courseID]; exists {
			return nil, apperrors.Wrap(
				apperrors.ErrInvalidInput,
				fmt.Sprintf("course %s is configured more than once", courseID),
			)
		}

		endpoints[courseID] = url
	}

	return endpoints, nil
}

// NewStaticRegistry creates a StaticRegistry from a parsed course_id to URL map.
func NewStaticRegistry(endpoints map[string]string) *StaticRegistry {
	copied := make(map[string]string, len(endpoints))
	for courseID, url := range endpoints {
		copied[courseID] = url
	}
	return &StaticRegistry{endpoints: copied}
}
