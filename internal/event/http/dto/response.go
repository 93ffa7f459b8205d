package dto

import (
	"time"

	eventDomain "github.com/allisson/coursehook/internal/event/domain"
)

// EventResponse represents an event and its delivery state in API responses.
type EventResponse struct {
	ID              string     `json:"id"`
	Type            string     `json:"type"`
	AffectedObject  string     `json:"affected_object"`
	CourseID        string     `json:"course_id"`
	EntityID        string     `json:"entity_id"`
	RelatedEntityID *string    `json:"related_entity_id"`
	DeliveryState   string     `json:"delivery_state"`
	AttemptCount    int        `json:"attempt_count"`
	LastError       *string    `json:"last_error,omitempty"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ListEventsResponse represents a paginated list of events in API responses.
type ListEventsResponse struct {
	Data []EventResponse `json:"data"`
}

// MapEventToResponse converts a domain event to an API response.
func MapEventToResponse(event *eventDomain.Event) EventResponse {
	return EventResponse{
		ID:              event.ID.String(),
		Type:            string(event.Type),
		AffectedObject:  string(event.AffectedObject),
		CourseID:        event.CourseID,
		EntityID:        event.EntityID,
		RelatedEntityID: event.RelatedEntityID,
		DeliveryState:   string(event.DeliveryState),
		AttemptCount:    event.AttemptCount,
		LastError:       event.LastError,
		DeliveredAt:     event.DeliveredAt,
		CreatedAt:       event.CreatedAt,
		UpdatedAt:       event.UpdatedAt,
	}
}

// MapEventsToListResponse converts a slice of domain events to a list response.
func MapEventsToListResponse(events []*eventDomain.Event) ListEventsResponse {
	data := make([]EventResponse, 0, len(events))
	for _, event := range events {
		data = append(data, MapEventToResponse(event))
	}

	return ListEventsResponse{
		Data: data,
	}
}
