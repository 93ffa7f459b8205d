// Package mocks provides mock implementations of the database interfaces for testing.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockTxManager is a mock implementation of TxManager. When the WithTx expectation
// returns nil the callback runs, so the logic inside the transaction is still exercised.
type MockTxManager struct {
	mock.Mock
}

// NewMockTxManager creates a MockTxManager that asserts its expectations on cleanup.
func NewMockTxManager(t *testing.T) *MockTxManager {
	m := &MockTxManager{}
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// WithTx mocks the WithTx method of TxManager.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}
