// Package usecase drives webhook delivery: the Scheduler polls the event log and hands
// each course's pending events to the Dispatcher, which performs one webhook request
// per batch and records the outcome.
package usecase

import (
	"context"

	eventDomain "github.com/allisson/coursehook/internal/event/domain"
)

// Dispatcher delivers one course's batch of events.
type Dispatcher interface {
	// Dispatch sends events, already in creation order, to the course's endpoint and
	// marks them. Delivery failures are recorded on the events and are not returned;
	// an error means the batch was left untouched.
	Dispatch(ctx context.Context, courseID string, events []*eventDomain.Event) error
}

// Scheduler periodically dispatches pending events.
type Scheduler interface {
	// Start ticks until ctx is cancelled, then waits for running dispatches.
	Start(ctx context.Context) error

	// Tick fetches pending events and launches one dispatch per available course.
	// It returns without waiting for the dispatches.
	Tick(ctx context.Context) error

	// Wait blocks until every dispatch launched so far has finished.
	Wait()
}
