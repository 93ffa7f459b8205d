// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	eventDomain "github.com/allisson/coursehook/internal/event/domain"
	customValidation "github.com/allisson/coursehook/internal/validation"
)

// AppendEventRequest contains the parameters for recording a course change-event.
type AppendEventRequest struct {
	Type            string  `json:"type"`
	AffectedObject  string  `json:"affected_object"`
	CourseID        string  `json:"course_id"`
	EntityID        string  `json:"entity_id"`
	RelatedEntityID *string `json:"related_entity_id,omitempty"`
}

// Validate checks if the append event request is valid.
func (r *AppendEventRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Type,
			validation.Required,
			customValidation.OneOf(eventDomain.EventTypes...),
		),
		validation.Field(&r.AffectedObject,
			validation.Required,
			customValidation.OneOf(eventDomain.AffectedObjects...),
		),
		validation.Field(&r.CourseID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.EntityID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.RelatedEntityID, validation.NilOrNotEmpty),
	)
}

// ToInput converts the request into the event log input.
func (r *AppendEventRequest) ToInput() *eventDomain.AppendEventInput {
	return &eventDomain.AppendEventInput{
		Type:            eventDomain.EventType(r.Type),
		AffectedObject:  eventDomain.AffectedObject(r.AffectedObject),
		CourseID:        r.CourseID,
		EntityID:        r.EntityID,
		RelatedEntityID: r.RelatedEntityID,
	}
}
