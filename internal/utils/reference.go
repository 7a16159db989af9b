package utils

import (
	"crypto/rand"
	"fmt"
)

// Alphabet excludes 0/O, 1/I/L so references survive being read over the
// phone.
const referenceAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateBookingReference generates a human-facing booking reference of
// the form BK-XXXXXXXX.
func GenerateBookingReference() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	for i := range b {
		b[i] = referenceAlphabet[int(b[i])%len(referenceAlphabet)]
	}
	return "BK-" + string(b), nil
}
