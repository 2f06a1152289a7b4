// Package validation holds input validation rules for user-facing fields.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateName checks a first or last name field.
func ValidateName(field, value string) error {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) < 2 {
		return fmt.Errorf("%s must be at least 2 characters", field)
	}
	if len(trimmed) > 64 {
		return fmt.Errorf("%s must be at most 64 characters", field)
	}
	return nil
}

// ValidateEmail checks basic email shape. Deliverability is not verified.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates past 72 bytes
		return fmt.Errorf("password must be at most 72 characters")
	}
	return nil
}
