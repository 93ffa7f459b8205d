package domain

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/coursehook/internal/validation"
)

// AppendEventInput carries the fields a producer supplies when recording a change.
type AppendEventInput struct {
	Type            EventType
	AffectedObject  AffectedObject
	CourseID        string
	EntityID        string
	RelatedEntityID *string
}

// Validate checks that the input describes a well-formed event.
func (i *AppendEventInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Type,
			validation.Required,
			customValidation.OneOf(EventTypes...),
		),
		validation.Field(&i.AffectedObject,
			validation.Required,
			customValidation.OneOf(AffectedObjects...),
		),
		validation.Field(&i.CourseID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			validation.Length(1, 255),
		),
		validation.Field(&i.EntityID,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&i.RelatedEntityID,
			validation.NilOrNotEmpty,
			validation.Length(1, 255),
		),
	)
	return customValidation.WrapValidationError(err)
}
