package domain

import "regexp"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address. Matches the
// form-level check the booking and registration flows expect.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
