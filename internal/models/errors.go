package models

import (
	"errors"
	"fmt"
)

// ============================================================================
// DOMAIN ERROR TAXONOMY
// ============================================================================

// ErrCapacityExceeded is returned when the atomic reserve check fails: the
// slot filled between quote and commit. Contention is a normal outcome, not
// a defect, and is kept distinct from transport and database errors so the
// UI can say "pick another time" instead of "fix your input".
var ErrCapacityExceeded = errors.New("slot capacity exceeded")

// ErrSlotNotFound is returned when no slot exists for the requested
// (package, date, time) triple.
var ErrSlotNotFound = errors.New("slot not found")

// ErrPackageNotFound is returned when the catalog has no such package.
var ErrPackageNotFound = errors.New("package not found")

// ErrIntentNotFound is returned when a cart item does not exist or belongs
// to another user.
var ErrIntentNotFound = errors.New("reservation intent not found")

// Validation rejection codes. Client-fixable; surfaced before any I/O.
const (
	RejectionNoAdults       = "no_adults"
	RejectionBelowMinimum   = "below_minimum"
	RejectionAboveMaximum   = "above_maximum"
	RejectionNotGroupOfN    = "not_multiple_of_group"
	RejectionBelowSlotFloor = "below_slot_minimum"
	RejectionInsufficient   = "insufficient_capacity"
	RejectionSlotClosed     = "slot_closed"
)

// ValidationError is a typed rejection from the eligibility rules. The Code
// is machine-readable; Message is safe to show to the user.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a rejection with a formatted message.
func NewValidationError(code, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StaleIntentError marks a cart item whose travel date has passed. Never
// retried automatically; the user must remove or rebook it.
type StaleIntentError struct {
	Title string
	Date  string
}

func (e *StaleIntentError) Error() string {
	return fmt.Sprintf("%s: date expired (%s)", e.Title, e.Date)
}

// IsStaleIntent reports whether err is (or wraps) a StaleIntentError.
func IsStaleIntent(err error) bool {
	var se *StaleIntentError
	return errors.As(err, &se)
}
