package phone

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmpty is returned for blank input
	ErrEmpty = errors.New("phone number cannot be empty")
	// ErrInvalid is returned when the digits do not form a dialable number
	ErrInvalid = errors.New("invalid phone number format")

	digitsOnlyRegex = regexp.MustCompile(`[^0-9]`)
)

const (
	minDigits = 7
	maxDigits = 15
)

// Normalize strips formatting from a customer phone number. A leading "+" or
// "00" international prefix is kept as "+"; everything else is reduced to digits.
// Example: "(555) 010-4477" -> "5550104477", "+44 20 7946 0958" -> "+442079460958"
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmpty
	}

	international := strings.HasPrefix(raw, "+")
	digits := digitsOnlyRegex.ReplaceAllString(raw, "")
	if !international && strings.HasPrefix(digits, "00") {
		international = true
		digits = digits[2:]
	}

	if len(digits) < minDigits || len(digits) > maxDigits {
		return "", ErrInvalid
	}
	if international {
		if digits[0] == '0' {
			return "", ErrInvalid
		}
		return "+" + digits, nil
	}
	return digits, nil
}

// FormatForDisplay formats a normalized 10 digit number as XXX-XXX-XXXX
func FormatForDisplay(phone string) string {
	if len(phone) != 10 {
		return phone
	}
	return phone[:3] + "-" + phone[3:6] + "-" + phone[6:]
}
