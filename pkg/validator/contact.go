// Package validator checks the contact details attached to a booking
// before any capacity is taken.
package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyName indicates the contact name is missing
	ErrEmptyName = errors.New("contact name cannot be empty")

	// ErrInvalidEmail indicates the email address is malformed
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrEmptyPhone indicates the phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")

	// ErrInvalidPhone indicates the phone number is malformed
	ErrInvalidPhone = errors.New("phone number must be 10 digits (07XXXXXXXX) or E.164 (+94XXXXXXXXX)")
)

var (
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	localRegex = regexp.MustCompile(`^0\d{9}$`)
	e164Regex  = regexp.MustCompile(`^\+\d{10,14}$`)
)

// ContactValidator validates booking contact details
type ContactValidator struct{}

// NewContactValidator creates a new contact validator instance
func NewContactValidator() *ContactValidator {
	return &ContactValidator{}
}

// ValidateName checks the contact name
func (v *ContactValidator) ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

// ValidateEmail checks the contact email address
func (v *ContactValidator) ValidateEmail(email string) error {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePhone checks a phone number and returns its sanitized form.
// Accepts local 10-digit numbers (0771234567, with spaces or dashes) and
// international E.164 numbers (+94771234567).
func (v *ContactValidator) ValidatePhone(phone string) (string, error) {
	if phone == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)
	if localRegex.MatchString(sanitized) || e164Regex.MatchString(sanitized) {
		return sanitized, nil
	}
	return "", ErrInvalidPhone
}

// Sanitize strips spaces, dashes and parentheses, keeping a leading plus
func (v *ContactValidator) Sanitize(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
