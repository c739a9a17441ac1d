// Package phone is the single normalizer for phone numbers. Every code path
// (OTP storage, account lookup, WhatsApp dispatch) goes through Normalize so
// the same input always maps to the same canonical string.
package phone

import (
	"regexp"
	"strings"
)

// DefaultCountryCode is prepended to bare national numbers.
const DefaultCountryCode = "91"

var (
	digitsOnly  = regexp.MustCompile(`^[0-9]+$`)
	e164Pattern = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)
	codePattern = regexp.MustCompile(`^[0-9]{6}$`)
)

// Normalize converts a raw input into a canonical international-format
// string. It never fails: malformed input gets a best-effort "+" prefix and
// is rejected later by IsValid.
func Normalize(raw string) string {
	number := strings.TrimSpace(raw)

	if strings.HasPrefix(number, "+") {
		return number
	}

	if digitsOnly.MatchString(number) {
		if len(number) == 10 {
			return "+" + DefaultCountryCode + number
		}
		if len(number) == 12 && strings.HasPrefix(number, DefaultCountryCode) {
			return "+" + number
		}
	}

	return "+" + number
}

// IsValid reports whether a normalized number matches the accepted
// international format: "+", country code, 7-14 further digits.
func IsValid(normalized string) bool {
	return e164Pattern.MatchString(normalized)
}

// IsValidCode reports whether a submitted OTP code is exactly six digits.
func IsValidCode(code string) bool {
	return codePattern.MatchString(code)
}
