// Package validation holds input validation rules for account fields.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 128
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{3,30}$`)

// emailRegex is a pragmatic format check, not an RFC 5322 parser. Anything
// it passes still has to survive the unique index on signup.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var reservedUsernames = map[string]struct{}{
	"admin":    {},
	"api":      {},
	"auth":     {},
	"users":    {},
	"messages": {},
	"feed":     {},
	"ws":       {},
	"swagger":  {},
	"metrics":  {},
	"login":    {},
	"signup":   {},
	"me":       {},
}

// ValidatePassword enforces the password policy.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLength)
	}
	return nil
}

// ValidateUsername validates username format and reserved names.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters and contain only letters, numbers, underscores, and hyphens")
	}
	if strings.HasPrefix(username, "-") || strings.HasSuffix(username, "_") {
		return fmt.Errorf("username cannot start with a hyphen or end with an underscore")
	}
	if _, exists := reservedUsernames[strings.ToLower(username)]; exists {
		return fmt.Errorf("username is reserved")
	}
	return nil
}

// ValidateEmail checks basic email address shape.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return fmt.Errorf("email address is not valid")
	}
	return nil
}
