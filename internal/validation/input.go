// Package validation checks user input before it is sent to the API.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// MaxEmailLength is the RFC 5321 limit: 64 (local) + 1 (@) + 255 (domain).
const MaxEmailLength = 320

// Email validates a bare email address and returns it trimmed.
// Display-name forms such as "Sam <sam@example.com>" are rejected.
func Email(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("email is empty")
	}
	if n := utf8.RuneCountInString(email); n > MaxEmailLength {
		return "", fmt.Errorf("email exceeds maximum length of %d characters (got %d)", MaxEmailLength, n)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return "", fmt.Errorf("invalid email format: %w", err)
	}
	if addr.Name != "" || addr.Address != email {
		return "", fmt.Errorf("invalid email format: expected a bare address")
	}
	return email, nil
}

// CountryCode normalizes a two-letter ISO 3166-1 alpha-2 code to upper case.
func CountryCode(code string) (string, error) {
	return letterCode(code, 2, "country code")
}

// CurrencyCode normalizes a three-letter ISO 4217 code to upper case.
func CurrencyCode(code string) (string, error) {
	return letterCode(code, 3, "currency code")
}

func letterCode(code string, size int, what string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != size {
		return "", fmt.Errorf("%s must be %d letters, got %q", what, size, code)
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%s must be %d letters, got %q", what, size, code)
		}
	}
	return c, nil
}
