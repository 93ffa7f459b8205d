// Package usecase resolves course webhook endpoints and manages the endpoint registry.
package usecase

import (
	"context"

	endpointDomain "github.com/allisson/coursehook/internal/endpoint/domain"
)

// EndpointRegistry resolves the webhook URL configured for a course.
// Lookups have no side effects; found is false when the course has no endpoint.
type EndpointRegistry interface {
	EndpointFor(ctx context.Context, courseID string) (url string, found bool, err error)
}

// EndpointRepository defines the interface for course endpoint persistence.
type EndpointRepository interface {
	// Upsert inserts the endpoint or replaces the URL and updated_at of an existing one.
	Upsert(ctx context.Context, endpoint *endpointDomain.CourseEndpoint) error

	// Get retrieves the endpoint of a course. Returns ErrEndpointNotFound when absent.
	Get(ctx context.Context, courseID string) (*endpointDomain.CourseEndpoint, error)

	// Delete removes the endpoint of a course. Returns ErrEndpointNotFound when absent.
	Delete(ctx context.Context, courseID string) error

	// List returns endpoints ordered by course id.
	List(ctx context.Context, offset, limit int) ([]*endpointDomain.CourseEndpoint, error)
}

// CacheInvalidator drops cached lookups for a course after its endpoint changes.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, courseID string) error
}

// EndpointUseCase manages database-backed course endpoints and resolves them for delivery.
type EndpointUseCase interface {
	EndpointRegistry

	// Set registers or replaces the webhook URL of a course.
	Set(ctx context.Context, input *endpointDomain.SetEndpointInput) (*endpointDomain.CourseEndpoint, error)

	// Remove deletes the webhook URL of a course; later events of the course are
	// treated as having no endpoint.
	Remove(ctx context.Context, courseID string) error

	// Get retrieves the endpoint registered for a course.
	Get(ctx context.Context, courseID string) (*endpointDomain.CourseEndpoint, error)

	// List returns registered endpoints ordered by course id.
	List(ctx context.Context, offset, limit int) ([]*endpointDomain.CourseEndpoint, error)
}
