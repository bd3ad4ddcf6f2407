// internal/app/system/inputval/inputval.go

// Package inputval holds field validators shared by the feature handlers.
// Validators return a caller-safe message via apperr so handlers can pass
// failures straight to the response writer.
package inputval

import (
	"regexp"
	"strings"

	"github.com/campusgames/meethub/internal/app/system/apperr"
)

var (
	hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// HexColor reports whether s is a 6-digit hex color like #FF0000.
func HexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

// Email reports whether s looks like an email address. This is a light
// shape check; deliverability is not our problem.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// Required returns a Validation error when the trimmed value is empty.
func Required(value, label string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.Validationf("%s is required", label)
	}
	return nil
}

// MaxLen returns a Validation error when value exceeds max characters.
func MaxLen(value, label string, max int) error {
	if len(value) > max {
		return apperr.Validationf("%s must be at most %d characters", label, max)
	}
	return nil
}

// MinLen returns a Validation error when value is shorter than min characters.
func MinLen(value, label string, min int) error {
	if len(value) < min {
		return apperr.Validationf("%s must be at least %d characters", label, min)
	}
	return nil
}
