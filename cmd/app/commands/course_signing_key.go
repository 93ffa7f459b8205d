package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	deliveryService "github.com/allisson/coursehook/internal/delivery/service"
)

// RunCourseSigningKey prints the derived key a course endpoint verifies
// X-Coursehook-Signature with.
func RunCourseSigningKey(signer *deliveryService.Signer, writer io.Writer, courseID, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if signer == nil {
		return errors.New("webhook signing is disabled: WEBHOOK_SIGNING_SECRET is not set")
	}
	if strings.TrimSpace(courseID) == "" {
		return errors.New("course id must not be empty")
	}

	key, err := signer.CourseKey(courseID)
	if err != nil {
		return fmt.Errorf("failed to derive signing key: %w", err)
	}
	encoded := hex.EncodeToString(key)

	if format == "json" {
		return writeJSON(writer, map[string]string{
			"course_id":   courseID,
			"signing_key": encoded,
		})
	}

	_, err = fmt.Fprintf(writer, "Signing key for course %s: %s\n", courseID, encoded)
	return err
}
