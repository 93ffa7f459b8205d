// Package mocks provides mock implementations of the delivery service interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	deliveryDomain "github.com/allisson/coursehook/internal/delivery/domain"
	eventDomain "github.com/allisson/coursehook/internal/event/domain"
)

// MockSender is a mock implementation of Sender for testing.
type MockSender struct {
	mock.Mock
}

// Send mocks the Send method of Sender.
func (m *MockSender) Send(ctx context.Context, url string, delivery *deliveryDomain.Delivery) error {
	args := m.Called(ctx, url, delivery)
	return args.Error(0)
}

// MockInflightGuard is a mock implementation of InflightGuard for testing.
type MockInflightGuard struct {
	mock.Mock
}

// TryAcquire mocks the TryAcquire method of InflightGuard.
func (m *MockInflightGuard) TryAcquire(ctx context.Context, courseID string) (bool, error) {
	args := m.Called(ctx, courseID)
	return args.Bool(0), args.Error(1)
}

// Release mocks the Release method of InflightGuard.
func (m *MockInflightGuard) Release(ctx context.Context, courseID string) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

// MockDeadLetterArchive is a mock implementation of DeadLetterArchive for testing.
type MockDeadLetterArchive struct {
	mock.Mock
}

// Archive mocks the Archive method of DeadLetterArchive.
func (m *MockDeadLetterArchive) Archive(
	ctx context.Context,
	courseID string,
	events []*eventDomain.Event,
) error {
	args := m.Called(ctx, courseID, events)
	return args.Error(0)
}
