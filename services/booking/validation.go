package booking

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// disposableDomains are matched as substrings of the email domain.
var disposableDomains = []string{
	"tempmail", "throwaway", "10minutemail", "guerrillamail", "mailinator",
	"trashmail", "fakeinbox", "temp-mail", "yopmail", "maildrop", "getnada",
	"sharklasers", "spam4", "grr.la", "mailnesia",
}

// placeholderNames are rejected as obviously fake attendee names.
var placeholderNames = map[string]struct{}{
	"test": {}, "fake": {}, "spam": {}, "admin": {}, "none": {}, "na": {}, "n/a": {},
}

const minNameLength = 10

// validateAttendee runs the booking validation pipeline over the attendee
// identity. It returns the user-facing rejection reason, or "" when every
// check passes. Checks run in a fixed order so the first failure wins.
func validateAttendee(email, name string) string {
	if !emailPattern.MatchString(email) {
		return "Please provide a valid email address (e.g., name@company.com)."
	}

	domain := strings.ToLower(email[strings.LastIndex(email, "@")+1:])
	for _, fragment := range disposableDomains {
		if strings.Contains(domain, fragment) {
			return "Please use a valid business or personal email address. Disposable email addresses are not accepted."
		}
	}

	trimmed := strings.TrimSpace(name)
	if len(trimmed) < minNameLength {
		return "Please provide your full name (first and last name, minimum 10 characters)."
	}

	if _, blocked := placeholderNames[strings.ToLower(trimmed)]; blocked {
		return "Please provide your real name."
	}

	return ""
}
