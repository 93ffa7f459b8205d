// Package mocks provides mock implementations of the delivery use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	eventDomain "github.com/allisson/coursehook/internal/event/domain"
)

// MockDispatcher is a mock implementation of Dispatcher for testing.
type MockDispatcher struct {
	mock.Mock
}

// Dispatch mocks the Dispatch method of Dispatcher.
func (m *MockDispatcher) Dispatch(ctx context.Context, courseID string, events []*eventDomain.Event) error {
	args := m.Called(ctx, courseID, events)
	return args.Error(0)
}

// MockScheduler is a mock implementation of Scheduler for testing.
type MockScheduler struct {
	mock.Mock
}

// Start mocks the Start method of Scheduler.
func (m *MockScheduler) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Tick mocks the Tick method of Scheduler.
func (m *MockScheduler) Tick(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Wait mocks the Wait method of Scheduler.
func (m *MockScheduler) Wait() {
	m.Called()
}
