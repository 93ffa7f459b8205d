package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/coursehook/internal/errors"
)

func TestSetEndpointInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   SetEndpointInput
		wantErr string
	}{
		{
			name:  "valid https endpoint",
			input: SetEndpointInput{CourseID: "c1", URL: "https://example.com/hook"},
		},
		{
			name:  "valid http endpoint with port",
			input: SetEndpointInput{CourseID: "c1", URL: "http://example:8080/hook"},
		},
		{
			name:    "missing course id",
			input:   SetEndpointInput{URL: "https://example.com/hook"},
			wantErr: "CourseID",
		},
		{
			name:    "course id with surrounding whitespace",
			input:   SetEndpointInput{CourseID: " c1", URL: "https://example.com/hook"},
			wantErr: "CourseID",
		},
		{
			name:    "relative url",
			input:   SetEndpointInput{CourseID: "c1", URL: "/hook"},
			wantErr: "URL",
		},
		{
			name:    "unsupported scheme",
			input:   SetEndpointInput{CourseID: "c1", URL: "ftp://example.com/hook"},
			wantErr: "URL",
		},
		{
			name:    "missing url",
			input:   SetEndpointInput{CourseID: "c1"},
			wantErr: "URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSetEndpointInput_Normalize(t *testing.T) {
	input := SetEndpointInput{CourseID: "  c1 ", URL: " https://example.com/hook\n"}

	input.Normalize()

	assert.Equal(t, "c1", input.CourseID)
	assert.Equal(t, "https://example.com/hook", input.URL)
	assert.NoError(t, input.Validate())
}

func TestErrEndpointNotFound(t *testing.T) {
	assert.ErrorIs(t, ErrEndpointNotFound, apperrors.ErrNotFound)
}
