package heuristics

import "regexp"

var (
	validEmailRe = regexp.MustCompile(`(?i)^[\w.\-]+@[\w.\-]+\.\w{2,}$`)
	validPhoneRe = regexp.MustCompile(`^(\+?\d{1,3}[\s\-.])?[\d\-()\s]{6,}$`)
)

// IsValidEmail reports whether s is a plausible whole-string email address.
// Empty strings are invalid; records never hold an unvalidated value.
func IsValidEmail(s string) bool {
	return s != "" && validEmailRe.MatchString(s)
}

// IsValidPhone reports whether s is a plausible whole-string phone number.
func IsValidPhone(s string) bool {
	return s != "" && validPhoneRe.MatchString(s)
}
