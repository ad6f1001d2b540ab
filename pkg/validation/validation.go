package validation

import (
	"regexp"
	"strings"

	"github.com/badoux/checkmail"
)

// tldRegex requires a dotted domain with an alphabetic TLD, which checkmail's
// RFC-style format check does not.
var tldRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[a-zA-Z]{2,}$`)

var countryCodeRegex = regexp.MustCompile(`^[A-Za-z]{2}$`)

// IsValidEmail validates email format
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if !tldRegex.MatchString(email) {
		return false
	}
	return checkmail.ValidateFormat(email) == nil
}

// NormalizeEmail trims and lower-cases an address for use as a key
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsNotEmpty checks if string is not empty after trimming
func IsNotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsCountryCode reports whether s looks like an ISO 3166 alpha-2 code
func IsCountryCode(s string) bool {
	return countryCodeRegex.MatchString(strings.TrimSpace(s))
}

// TrimAndValidate trims string and validates it's not empty
func TrimAndValidate(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	return trimmed, trimmed != ""
}
