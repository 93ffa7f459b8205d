// Package mocks provides mock implementations of the event log interfaces for testing.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	eventDomain "github.com/allisson/coursehook/internal/event/domain"
)

// MockEventRepository is a mock implementation of EventRepository for testing.
type MockEventRepository struct {
	mock.Mock
}

// Create mocks the Create method of EventRepository.
func (m *MockEventRepository) Create(ctx context.Context, event *eventDomain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// Get mocks the Get method of EventRepository.
func (m *MockEventRepository) Get(ctx context.Context, eventID uuid.UUID) (*eventDomain.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*eventDomain.Event), args.Error(1)
}

// GetForUpdate mocks the GetForUpdate method of EventRepository.
func (m *MockEventRepository) GetForUpdate(ctx context.Context, eventID uuid.UUID) (*eventDomain.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*eventDomain.Event), args.Error(1)
}

// Update mocks the Update method of EventRepository.
func (m *MockEventRepository) Update(ctx context.Context, event *eventDomain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// ListEligible mocks the ListEligible method of EventRepository.
func (m *MockEventRepository) ListEligible(ctx context.Context, limit int) ([]*eventDomain.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*eventDomain.Event), args.Error(1)
}

// List mocks the List method of EventRepository.
func (m *MockEventRepository) List(
	ctx context.Context,
	state *eventDomain.DeliveryState,
	offset, limit int,
) ([]*eventDomain.Event, error) {
	args := m.Called(ctx, state, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*eventDomain.Event), args.Error(1)
}

// CountDeliveredBefore mocks the CountDeliveredBefore method of EventRepository.
func (m *MockEventRepository) CountDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteDeliveredBefore mocks the DeleteDeliveredBefore method of EventRepository.
func (m *MockEventRepository) DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventUseCase is a mock implementation of EventUseCase for testing.
type MockEventUseCase struct {
	mock.Mock
}

// Append mocks the Append method of EventUseCase.
func (m *MockEventUseCase) Append(
	ctx context.Context,
	input *eventDomain.AppendEventInput,
) (*eventDomain.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*eventDomain.Event), args.Error(1)
}

// PendingEvents mocks the PendingEvents method of EventUseCase.
func (m *MockEventUseCase) PendingEvents(ctx context.Context, limit int) ([]*eventDomain.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*eventDomain.Event), args.Error(1)
}

// MarkDelivered mocks the MarkDelivered method of EventUseCase.
func (m *MockEventUseCase) MarkDelivered(
	ctx context.Context,
	eventIDs ...uuid.UUID,
) ([]*eventDomain.Event, error) {
	args := m.Called(ctx, eventIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*eventDomain.Event), args.Error(1)
}

// MarkFailed mocks the MarkFailed method of EventUseCase.
func (m *MockEventUseCase) MarkFailed(
	ctx context.Context,
	reason string,
	eventIDs ...uuid.UUID,
) ([]*eventDomain.Event, error) {
	args := m.Called(ctx, reason, eventIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*eventDomain.Event), args.Error(1)
}

// Get mocks the Get method of EventUseCase.
func (m *MockEventUseCase) Get(ctx context.Context, eventID uuid.UUID) (*eventDomain.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*eventDomain.Event), args.Error(1)
}

// List mocks the List method of EventUseCase.
func (m *MockEventUseCase) List(
	ctx context.Context,
	state *eventDomain.DeliveryState,
	offset, limit int,
) ([]*eventDomain.Event, error) {
	args := m.Called(ctx, state, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*eventDomain.Event), args.Error(1)
}

// Requeue mocks the Requeue method of EventUseCase.
func (m *MockEventUseCase) Requeue(ctx context.Context, eventID uuid.UUID) (*eventDomain.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*eventDomain.Event), args.Error(1)
}

// Purge mocks the Purge method of EventUseCase.
func (m *MockEventUseCase) Purge(ctx context.Context, olderThanDays int, dryRun bool) (int64, error) {
	args := m.Called(ctx, olderThanDays, dryRun)
	return args.Get(0).(int64), args.Error(1)
}
