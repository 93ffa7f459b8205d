package usecase

import (
	"context"
	"time"

	"github.com/allisson/coursehook/internal/database"
	endpointDomain "github.com/allisson/coursehook/internal/endpoint/domain"
	apperrors "github.com/allisson/coursehook/internal/errors"
)

// endpointUseCase implements EndpointUseCase on top of an EndpointRepository.
type endpointUseCase struct {
	txManager    database.TxManager
	endpointRepo EndpointRepository
	invalidator  CacheInvalidator
	now          func() time.Time
}

// Set validates the input and stores the endpoint, keeping the original creation
// time when the course already had one.
func (e *endpointUseCase) Set(
	ctx context.Context,
	input *endpointDomain.SetEndpointInput,
) (*endpointDomain.CourseEndpoint, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var endpoint *endpointDomain.CourseEndpoint
	err := e.txManager.WithTx(ctx, func(ctx context.Context) error {
		now := e.now()

		existing, err := e.endpointRepo.Get(ctx, input.CourseID)
		switch {
		case err == nil:
			existing.URL = input.URL
			existing.UpdatedAt = now
			endpoint = existing
		case apperrors.Is(err, endpointDomain.ErrEndpointNotFound):
			endpoint = &endpointDomain.CourseEndpoint{
				CourseID:  input.CourseID,
				URL:       input.URL,
				CreatedAt: now,
				UpdatedAt: now,
			}
		default:
			return err
		}

		return e.endpointRepo.Upsert(ctx, endpoint)
	})
	if err != nil {
		return nil, err
	}

	e.invalidate(ctx, input.CourseID)
	return endpoint, nil
}

// Remove deletes the endpoint of a course.
func (e *endpointUseCase) Remove(ctx context.Context, courseID string) error {
	if err := e.endpointRepo.Delete(ctx, courseID); err != nil {
		return err
	}
	e.invalidate(ctx, courseID)
	return nil
}

// Get retrieves the endpoint of a course.
func (e *endpointUseCase) Get(ctx context.Context, courseID string) (*endpointDomain.CourseEndpoint, error) {
	return e.endpointRepo.Get(ctx, courseID)
}

// List returns endpoints ordered by course id.
func (e *endpointUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*endpointDomain.CourseEndpoint, error) {
	if limit <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "limit must be positive")
	}
	return e.endpointRepo.List(ctx, offset, limit)
}

// EndpointFor resolves the URL stored for a course.
func (e *endpointUseCase) EndpointFor(ctx context.Context, courseID string) (string, bool, error) {
	endpoint, err := e.endpointRepo.Get(ctx, courseID)
	if err != nil {
		if apperrors.Is(err, endpointDomain.ErrEndpointNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return endpoint.URL, true, nil
}

// invalidate drops the cached lookup for courseID. A stale cache entry expires on
// its own, so failures are ignored.
func (e *endpointUseCase) invalidate(ctx context.Context, courseID string) {
	if e.invalidator == nil {
		return
	}
	_ = e.invalidator.Invalidate(ctx, courseID)
}

// NewEndpointUseCase creates a new EndpointUseCase. invalidator may be nil when
// lookups are not cached.
func NewEndpointUseCase(
	txManager database.TxManager,
	endpointRepo EndpointRepository,
	invalidator CacheInvalidator,
) EndpointUseCase {
	return &endpointUseCase{
		txManager:    txManager,
		endpointRepo: endpointRepo,
		invalidator:  invalidator,
		now:          func() time.Time { return time.Now().UTC() },
	}
}
