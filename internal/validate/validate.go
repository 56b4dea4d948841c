package validate

import (
	"regexp"
	"strings"
	"time"

	"github.com/guarzo/gamematch/internal/apperr"
)

// Sentinels substituted for values that fail validation during consolidation.
const (
	InvalidEmail = "invalid email"
	InvalidDate  = "invalid date"
)

// ISODate is the canonical birth date layout.
const ISODate = "2006-01-02"

// DateLayouts are tried in order; ambiguous input resolves to the first
// layout that parses. Unpadded layouts accept zero-padded input as well.
var DateLayouts = []string{
	"2006-1-2",
	"2-1-2006",
	"2/1/2006",
}

var emailPattern = regexp.MustCompile(`^\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// ValidEmail checks the address shape only; no DNS or mailbox verification.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// Email returns the trimmed address when valid, InvalidEmail otherwise.
func Email(s string) string {
	s = strings.TrimSpace(s)
	if ValidEmail(s) {
		return s
	}
	return InvalidEmail
}

// NormalizeDate parses s against DateLayouts and returns it as YYYY-MM-DD,
// or InvalidDate when no layout matches.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ISODate)
		}
	}
	return InvalidDate
}

// ValidDate reports whether s normalizes to a real date. The sentinel itself
// is never valid.
func ValidDate(s string) bool {
	return NormalizeDate(s) != InvalidDate
}

// RequiredText trims s and fails with a validation error when nothing is left.
func RequiredText(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperr.Newf(apperr.Validation, "validate", "%s is required", field)
	}
	return s, nil
}

// StrictEmail is used when a person is registered directly: invalid addresses
// are rejected instead of replaced by the sentinel.
func StrictEmail(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !ValidEmail(s) {
		return "", apperr.Newf(apperr.Validation, "validate", "invalid email %q", s)
	}
	return s, nil
}

// StrictDate is the rejecting counterpart of NormalizeDate.
func StrictDate(s string) (string, error) {
	d := NormalizeDate(s)
	if d == InvalidDate {
		return "", apperr.Newf(apperr.Validation, "validate", "invalid birth date %q", strings.TrimSpace(s))
	}
	return d, nil
}
