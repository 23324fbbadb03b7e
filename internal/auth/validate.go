package auth

import (
	"fmt"
	"regexp"
	"strings"
)

// Form validation messages, surfaced inline next to the offending field.
const (
	msgRequiredField     = "This field is required"
	msgInvalidEmail      = "Invalid email address"
	msgPasswordMinLength = "Password must be at least 6 characters"
	msgPasswordsMismatch = "Passwords don't match"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks presence and shape.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%s", msgRequiredField)
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("%s", msgInvalidEmail)
	}
	return nil
}

// ValidatePassword checks presence and minimum length.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%s", msgRequiredField)
	}
	if len(password) < 6 {
		return fmt.Errorf("%s", msgPasswordMinLength)
	}
	return nil
}

// ValidatePasswordConfirmation checks the repeated password matches.
func ValidatePasswordConfirmation(password, confirm string) error {
	if confirm == "" {
		return fmt.Errorf("%s", msgRequiredField)
	}
	if password != confirm {
		return fmt.Errorf("%s", msgPasswordsMismatch)
	}
	return nil
}

// ValidateName checks presence.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s", msgRequiredField)
	}
	return nil
}
