// Package domain defines the webhook delivery payload and delivery failures.
package domain

import (
	"time"

	"github.com/google/uuid"

	eventDomain "github.com/allisson/coursehook/internal/event/domain"
)

// Record is the wire form of one event inside a webhook batch.
// RelatedEntityID is serialized as null when absent.
type Record struct {
	Type            eventDomain.EventType      `json:"type"`
	AffectedObject  eventDomain.AffectedObject `json:"affectedObject"`
	CourseID        string                     `json:"courseId"`
	EntityID        string                     `json:"entityId"`
	RelatedEntityID *string                    `json:"relatedEntityId"`
	CreatedAt       time.Time                  `json:"createdAt"`
}

// Delivery is one outbound webhook request carrying a course's events in creation order.
type Delivery struct {
	ID       uuid.UUID
	CourseID string
	Records  []Record
}

// NewRecord converts an event into its wire form.
func NewRecord(event *eventDomain.Event) Record {
	return Record{
		Type:            event.Type,
		AffectedObject:  event.AffectedObject,
		CourseID:        event.CourseID,
		EntityID:        event.EntityID,
		RelatedEntityID: event.RelatedEntityID,
		CreatedAt:       event.CreatedAt.UTC(),
	}
}

// NewDelivery builds a delivery for events, keeping their order.
func NewDelivery(courseID string, events []*eventDomain.Event) (*Delivery, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(events))
	for _, event := range events {
		records = append(records, NewRecord(event))
	}

	return &Delivery{
		ID:       id,
		CourseID: courseID,
		Records:  records,
	}, nil
}
