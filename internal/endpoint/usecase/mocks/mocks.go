// Package mocks provides mock implementations of the endpoint registry interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	endpointDomain "github.com/allisson/coursehook/internal/endpoint/domain"
)

// MockEndpointRegistry is a mock implementation of EndpointRegistry for testing.
type MockEndpointRegistry struct {
	mock.Mock
}

// EndpointFor mocks the EndpointFor method of EndpointRegistry.
func (m *MockEndpointRegistry) EndpointFor(ctx context.Context, courseID string) (string, bool, error) {
	args := m.Called(ctx, courseID)
	return args.String(0), args.Bool(1), args.Error(2)
}

// MockEndpointRepository is a mock implementation of EndpointRepository for testing.
type MockEndpointRepository struct {
	mock.Mock
}

// Upsert mocks the Upsert method of EndpointRepository.
func (m *MockEndpointRepository) Upsert(ctx context.Context, endpoint *endpointDomain.CourseEndpoint) error {
	args := m.Called(ctx, endpoint)
	return args.Error(0)
}

// Get mocks the Get method of EndpointRepository.
func (m *MockEndpointRepository) Get(ctx context.Context, courseID string) (*endpointDomain.CourseEndpoint, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*endpointDomain.CourseEndpoint), args.Error(1)
}

// Delete mocks the Delete method of EndpointRepository.
func (m *MockEndpointRepository) Delete(ctx context.Context, courseID string) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

// List mocks the List method of EndpointRepository.
func (m *MockEndpointRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*endpointDomain.CourseEndpoint, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*endpointDomain.CourseEndpoint), args.Error(1)
}

// MockCacheInvalidator is a mock implementation of CacheInvalidator for testing.
type MockCacheInvalidator struct {
	mock.Mock
}

// Invalidate mocks the Invalidate method of CacheInvalidator.
func (m *MockCacheInvalidator) Invalidate(ctx context.Context, courseID string) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

// MockEndpointUseCase is a mock implementation of EndpointUseCase for testing.
type MockEndpointUseCase struct {
	mock.Mock
}

// EndpointFor mocks the EndpointFor method of EndpointUseCase.
func (m *MockEndpointUseCase) EndpointFor(ctx context.Context, courseID string) (string, bool, error) {
	args := m.Called(ctx, courseID)
	return args.String(0), args.Bool(1), args.Error(2)
}

// Set mocks the Set method of EndpointUseCase.
func (m *MockEndpointUseCase) Set(
	ctx context.Context,
	input *endpointDomain.SetEndpointInput,
) (*endpointDomain.CourseEndpoint, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*endpointDomain.CourseEndpoint), args.Error(1)
}

// Remove mocks the Remove method of EndpointUseCase.
func (m *MockEndpointUseCase) Remove(ctx context.Context, courseID string) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

// Get mocks the Get method of EndpointUseCase.
func (m *MockEndpointUseCase) Get(ctx context.Context, courseID string) (*endpointDomain.CourseEndpoint, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*endpointDomain.CourseEndpoint), args.Error(1)
}

// List mocks the List method of EndpointUseCase.
func (m *MockEndpointUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*endpointDomain.CourseEndpoint, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*endpointDomain.CourseEndpoint), args.Error(1)
}
