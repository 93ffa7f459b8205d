// Package domain defines the course webhook endpoint entity.
package domain

import (
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/coursehook/internal/validation"
)

// CourseEndpoint maps a course to the webhook URL its change-events are delivered to.
type CourseEndpoint struct {
	CourseID  string
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetEndpointInput carries the values needed to register or replace a course endpoint.
type SetEndpointInput struct {
	CourseID string
	URL      string
}

// Validate checks the course id and that URL is an absolute http or https URL.
func (i *SetEndpointInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.CourseID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			validation.Length(1, 255),
		),
		validation.Field(&i.URL,
			validation.Required,
			customValidation.NoWhitespace,
			customValidation.WebhookURL,
		),
	)
	return customValidation.WrapValidationError(err)
}

// Normalize trims surrounding whitespace from both fields.
func (i *SetEndpointInput) Normalize() {
	i.CourseID = strings.TrimSpace(i.CourseID)
	i.URL = strings.TrimSpace(i.URL)
}
