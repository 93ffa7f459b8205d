// Package domain defines the course change-event entity and its delivery state machine.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType is what happened to the affected entity.
type EventType string

const (
	EventTypeInsert EventType = "INSERT"
	EventTypeUpdate EventType = "UPDATE"
	EventTypeRemove EventType = "REMOVE"
)

// AffectedObject is the kind of entity an event refers to.
type AffectedObject string

const (
	AffectedObjectUser               AffectedObject = "USER"
	AffectedObjectGroup              AffectedObject = "GROUP"
	AffectedObjectUserGroupRelation  AffectedObject = "USER_GROUP_RELATION"
	AffectedObjectCourseUserRelation AffectedObject = "COURSE_USER_RELATION"
	AffectedObjectAssignment         AffectedObject = "ASSIGNMENT"
)

// DeliveryState tracks where an event is in its webhook delivery lifecycle.
type DeliveryState string

const (
	DeliveryStatePending   DeliveryState = "PENDING"
	DeliveryStateDelivered DeliveryState = "DELIVERED"
	DeliveryStateFailed    DeliveryState = "FAILED"
	DeliveryStateAbandoned DeliveryState = "ABANDONED"
)

// EventTypes lists every valid EventType.
var EventTypes = []EventType{EventTypeInsert, EventTypeUpdate, EventTypeRemove}

// AffectedObjects lists every valid AffectedObject.
var AffectedObjects = []AffectedObject{
	AffectedObjectUser,
	AffectedObjectGroup,
	AffectedObjectUserGroupRelation,
	AffectedObjectCourseUserRelation,
	AffectedObjectAssignment,
}

// DeliveryStates lists every valid DeliveryState.
var DeliveryStates = []DeliveryState{
	DeliveryStatePending,
	DeliveryStateDelivered,
	DeliveryStateFailed,
	DeliveryStateAbandoned,
}

// Event is a change that happened to an entity of a course.
// Identity and payload fields never change after creation; only the delivery
// fields move, and only through the Mark* methods.
type Event struct {
	ID              uuid.UUID
	Type            EventType
	AffectedObject  AffectedObject
	CourseID        string
	EntityID        string
	RelatedEntityID *string
	CreatedAt       time.Time

	DeliveryState DeliveryState
	AttemptCount  int
	LastError     *string
	DeliveredAt   *time.Time
	UpdatedAt     time.Time
}

// NewEvent builds a PENDING event with a time-ordered UUIDv7 identifier.
func NewEvent(
	eventType EventType,
	affectedObject AffectedObject,
	courseID, entityID string,
	relatedEntityID *string,
	now time.Time,
) (*Event, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	return &Event{
		ID:              id,
		Type:            eventType,
		AffectedObject:  affectedObject,
		CourseID:        courseID,
		EntityID:        entityID,
		RelatedEntityID: relatedEntityID,
		CreatedAt:       now,
		DeliveryState:   DeliveryStatePending,
		AttemptCount:    0,
		UpdatedAt:       now,
	}, nil
}

// IsTerminal reports whether the event will never be attempted again.
func (e *Event) IsTerminal() bool {
	return e.DeliveryState == DeliveryStateDelivered || e.DeliveryState == DeliveryStateAbandoned
}

// IsEligible reports whether the scheduler should pick the event up.
func (e *Event) IsEligible() bool {
	return e.DeliveryState == DeliveryStatePending || e.DeliveryState == DeliveryStateFailed
}

// MarkDelivered records a successful attempt. Terminal events are left untouched
// and false is returned, so repeated calls are no-ops.
func (e *Event) MarkDelivered(now time.Time) bool {
	if e.IsTerminal() {
		return false
	}

	now = now.UTC()
	e.DeliveryState = DeliveryStateDelivered
	e.AttemptCount++
	e.LastError = nil
	e.DeliveredAt = &now
	e.UpdatedAt = now
	return true
}

// MarkFailed records a failed attempt. Once AttemptCount reaches maxAttempts the
// event becomes ABANDONED. Terminal events are left untouched and false is returned.
func (e *Event) MarkFailed(now time.Time, reason string, maxAttempts int) bool {
	if e.IsTerminal() {
		return false
	}

	e.AttemptCount++
	e.LastError = &reason
	e.UpdatedAt = now.UTC()

	if maxAttempts > 0 && e.AttemptCount >= maxAttempts {
		e.DeliveryState = DeliveryStateAbandoned
	} else {
		e.DeliveryState = DeliveryStateFailed
	}
	return true
}

// Requeue moves an abandoned event back to PENDING so the scheduler retries it.
// AttemptCount is kept; the operator decides how many extra attempts to allow
// through the configured maximum.
func (e *Event) Requeue(now time.Time) error {
	if e.DeliveryState != DeliveryStateAbandoned {
		return ErrInvalidTransition
	}
	e.DeliveryState = DeliveryStatePending
	e.UpdatedAt = now.UTC()
	return nil
}
