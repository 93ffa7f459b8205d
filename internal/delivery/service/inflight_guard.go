package service

import (
	"context"
	"sync"
)

// LocalInflightGuard tracks in-flight courses within a single process.
type LocalInflightGuard struct {
	mu       sync.Mutex
	inflight map[string]bool
}

// TryAcquire marks courseID as in flight unless it already is.
func (g *LocalInflightGuard) TryAcquire(ctx context.Context, courseID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inflight[courseID] {
		return false, nil
	}
	g.inflight[courseID] = true
	return true, nil
}

// Release clears the in-flight mark of courseID.
func (g *LocalInflightGuard) Release(ctx context.Context, courseID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inflight, courseID)
	return nil
}

// NewLocalInflightGuard creates an empty LocalInflightGuard.
func NewLocalInflightGuard() *LocalInflightGuard {
	return &LocalInflightGuard{inflight: make(map[string]bool)}
}
