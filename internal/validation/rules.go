// Package validation provides custom validation rules for the application.
package validation

import (
	"net/url"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/coursehook/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// WebhookURL validates that a string is an absolute http or https URL with a host.
var WebhookURL = validation.NewStringRuleWithError(
	IsWebhookURL,
	validation.NewError("validation_webhook_url", "must be an absolute http or https URL"),
)

// IsWebhookURL reports whether s can be used as a webhook target.
func IsWebhookURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// OneOf validates that a string value is one of the allowed values.
func OneOf[T ~string](allowed ...T) validation.Rule {
	return validation.By(func(value any) error {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case T:
			s = string(v)
		default:
			return validation.NewError("validation_one_of_type", "must be a string")
		}
		if s == "" {
			return nil // Let Required handle empty strings
		}
		for _, a := range allowed {
			if string(a) == s {
				return nil
			}
		}
		return validation.NewError("validation_one_of", "must be a valid value")
	})
}
