package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	databaseMocks "github.com/allisson/coursehook/internal/database/mocks"
	endpointDomain "github.com/allisson/coursehook/internal/endpoint/domain"
	endpointMocks "github.com/allisson/coursehook/internal/endpoint/usecase/mocks"
	apperrors "github.com/allisson/coursehook/internal/errors"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestUseCase(
	txManager *databaseMocks.MockTxManager,
	repo *endpointMocks.MockEndpointRepository,
	invalidator CacheInvalidator,
) *endpointUseCase {
	uc := NewEndpointUseCase(txManager, repo, invalidator).(*endpointUseCase)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestEndpointUseCase_Set(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_NewEndpoint", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockRepo := &endpointMocks.MockEndpointRepository{}
		mockInvalidator := &endpointMocks.MockCacheInvalidator{}

		mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		mockRepo.On("Get", ctx, "c1").Return(nil, endpointDomain.ErrEndpointNotFound).Once()
		mockRepo.On("Upsert", ctx, mock.MatchedBy(func(endpoint *endpointDomain.CourseEndpoint) bool {
			return endpoint.CourseID == "c1" &&
				endpoint.URL == "https://example.com/hook" &&
				endpoint.CreatedAt.Equal(fixedNow) &&
				endpoint.UpdatedAt.Equal(fixedNow)
		})).Return(nil).Once()
		mockInvalidator.On("Invalidate", ctx, "c1").Return(nil).Once()

		uc := newTestUseCase(mockTxManager, mockRepo, mockInvalidator)
		endpoint, err := uc.Set(ctx, &endpointDomain.SetEndpointInput{
			CourseID: " c1 ",
			URL:      "https://example.com/hook",
		})

		require.NoError(t, err)
		assert.Equal(t, "c1", endpoint.CourseID)
		mockRepo.AssertExpectations(t)
		mockInvalidator.AssertExpectations(t)
	})

	t.Run("Success_ReplaceKeepsCreatedAt", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockRepo := &endpointMocks.MockEndpointRepository{}
		createdAt := fixedNow.Add(-24 * time.Hour)
		existing := &endpointDomain.CourseEndpoint{
			CourseID:  "c1",
			URL:       "https://old.example.com/hook",
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}

		mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		mockRepo.On("Get", ctx, "c1").Return(existing, nil).Once()
		mockRepo.On("Upsert", ctx, existing).Return(nil).Once()

		uc := newTestUseCase(mockTxManager, mockRepo, nil)
		endpoint, err := uc.Set(ctx, &endpointDomain.SetEndpointInput{
			CourseID: "c1",
			URL:      "https://new.example.com/hook",
		})

		require.NoError(t, err)
		assert.Equal(t, "https://new.example.com/hook", endpoint.URL)
		assert.Equal(t, createdAt, endpoint.CreatedAt)
		assert.Equal(t, fixedNow, endpoint.UpdatedAt)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_InvalidURL", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockRepo := &endpointMocks.MockEndpointRepository{}

		uc := newTestUseCase(mockTxManager, mockRepo, nil)
		endpoint, err := uc.Set(ctx, &endpointDomain.SetEndpointInput{CourseID: "c1", URL: "example.com"})

		assert.Nil(t, endpoint)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		mockRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Error_LookupFailure", func(t *testing.T) {
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockRepo := &endpointMocks.MockEndpointRepository{}
		mockInvalidator := &endpointMocks.MockCacheInvalidator{}
		storageErr := apperrors.WrapStorage(errors.New("connection reset"), "failed to get course endpoint")

		mockTxManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		mockRepo.On("Get", ctx, "c1").Return(nil, storageErr).Once()

		uc := newTestUseCase(mockTxManager, mockRepo, mockInvalidator)
		_, err := uc.Set(ctx, &endpointDomain.SetEndpointInput{CourseID: "c1", URL: "https://example.com/hook"})

		assert.ErrorIs(t, err, apperrors.ErrStorage)
		mockRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		mockInvalidator.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})
}

func TestEndpointUseCase_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := &endpointMocks.MockEndpointRepository{}
		mockInvalidator := &endpointMocks.MockCacheInvalidator{}

		mockRepo.On("Delete", ctx, "c1").Return(nil).Once()
		mockInvalidator.On("Invalidate", ctx, "c1").Return(errors.New("redis down")).Once()

		uc := newTestUseCase(databaseMocks.NewMockTxManager(t), mockRepo, mockInvalidator)

		assert.NoError(t, uc.Remove(ctx, "c1"))
		mockRepo.AssertExpectations(t)
		mockInvalidator.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		mockRepo := &endpointMocks.MockEndpointRepository{}
		mockRepo.On("Delete", ctx, "c9").Return(endpointDomain.ErrEndpointNotFound).Once()

		uc := newTestUseCase(databaseMocks.NewMockTxManager(t), mockRepo, nil)

		assert.ErrorIs(t, uc.Remove(ctx, "c9"), apperrors.ErrNotFound)
	})
}

func TestEndpointUseCase_EndpointFor(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mockRepo := &endpointMocks.MockEndpointRepository{}
		mockRepo.On("Get", ctx, "c1").
			Return(&endpointDomain.CourseEndpoint{CourseID: "c1", URL: "https://example.com/hook"}, nil).
			Once()

		uc := newTestUseCase(databaseMocks.NewMockTxManager(t), mockRepo, nil)
		url, found, err := uc.EndpointFor(ctx, "c1")

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "https://example.com/hook", url)
	})

	t.Run("Absent", func(t *testing.T) {
		mockRepo := &endpointMocks.MockEndpointRepository{}
		mockRepo.On("Get", ctx, "c1").Return(nil, endpointDomain.ErrEndpointNotFound).Once()

		uc := newTestUseCase(databaseMocks.NewMockTxManager(t), mockRepo, nil)
		url, found, err := uc.EndpointFor(ctx, "c1")

		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, url)
	})

	t.Run("Error_Storage", func(t *testing.T) {
		mockRepo := &endpointMocks.MockEndpointRepository{}
		mockRepo.On("Get", ctx, "c1").
			Return(nil, apperrors.WrapStorage(errors.New("timeout"), "failed to get course endpoint")).
			Once()

		uc := newTestUseCase(databaseMocks.NewMockTxManager(t), mockRepo, nil)
		_, found, err := uc.EndpointFor(ctx, "c1")

		assert.False(t, found)
		assert.ErrorIs(t, err, apperrors.ErrStorage)
	})
}

func TestEndpointUseCase_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := &endpointMocks.MockEndpointRepository{}
		endpoints := []*endpointDomain.CourseEndpoint{{CourseID: "c1"}, {CourseID: "c2"}}
		mockRepo.On("List", ctx, 0, 10).Return(endpoints, nil).Once()

		uc := newTestUseCase(databaseMocks.NewMockTxManager(t), mockRepo, nil)
		result, err := uc.List(ctx, 0, 10)

		require.NoError(t, err)
		assert.Equal(t, endpoints, result)
	})

	t.Run("Error_NonPositiveLimit", func(t *testing.T) {
		uc := newTestUseCase(databaseMocks.NewMockTxManager(t), &endpointMocks.MockEndpointRepository{}, nil)

		_, err := uc.List(ctx, 0, 0)

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
