package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// BOOKING STATUS (matches DB ENUM: booking_status)
// ============================================================================

// BookingStatus represents the lifecycle state of a committed booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ============================================================================
// BOOKING MODEL (bookings table)
// ============================================================================

// ContactInfo identifies the person responsible for a booking. Supplied by
// the identity collaborator at checkout.
type ContactInfo struct {
	Name  string `json:"name" db:"contact_name" binding:"required"`
	Email string `json:"email" db:"contact_email" binding:"required"`
	Phone string `json:"phone" db:"contact_phone" binding:"required"`
}

// Booking is the committed, durable result of a successful reservation.
// A slot's booked_count is the sum of total guests across its non-cancelled
// bookings.
type Booking struct {
	ID               uuid.UUID     `json:"id" db:"id"`
	BookingReference string        `json:"booking_reference" db:"booking_reference"`
	UserID           uuid.UUID     `json:"user_id" db:"user_id"`
	PackageID        uuid.UUID     `json:"package_id" db:"package_id"`
	PackageTitle     string        `json:"package_title" db:"package_title"`
	TravelDate       time.Time     `json:"travel_date" db:"travel_date"`
	StartTime        string        `json:"start_time" db:"start_time"`
	Adults           int           `json:"adults" db:"adults"`
	Children         int           `json:"children" db:"children"`
	PickupLocation   string        `json:"pickup_location" db:"pickup_location"`
	ContactName      string        `json:"contact_name" db:"contact_name"`
	ContactEmail     string        `json:"contact_email" db:"contact_email"`
	ContactPhone     string        `json:"contact_phone" db:"contact_phone"`
	TotalPrice       float64       `json:"total_price" db:"total_price"`
	Status           BookingStatus `json:"status" db:"status"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

// TotalGuests returns the headcount the booking holds on its slot.
func (b *Booking) TotalGuests() int {
	return b.Adults + b.Children
}

// ============================================================================
// QUOTE
// ============================================================================

// Quote is a read-only price evaluation for a proposed party against a
// slot. It is used for UI display and cart pricing, never as a commitment.
type Quote struct {
	PackageID  uuid.UUID `json:"package_id"`
	Date       string    `json:"date"`
	StartTime  string    `json:"start_time"`
	Adults     int       `json:"adults"`
	Children   int       `json:"children"`
	AdultPrice float64   `json:"adult_price"`
	ChildPrice float64   `json:"child_price"`
	TotalPrice float64   `json:"total_price"`
	Remaining  int       `json:"remaining"` // advisory snapshot
}

// ============================================================================
// REQUEST / RESPONSE TYPES
// ============================================================================

// QuoteRequest asks for a price evaluation of a proposed party
type QuoteRequest struct {
	PackageID string       `json:"package_id" binding:"required,uuid"`
	Date      string       `json:"date" binding:"required"`
	StartTime string       `json:"start_time" binding:"required"`
	Party     PartyRequest `json:"party" binding:"required"`
}

// CommitRequest books a single slot directly, without going through the cart
type CommitRequest struct {
	PackageID      string       `json:"package_id" binding:"required,uuid"`
	Date           string       `json:"date" binding:"required"`
	StartTime      string       `json:"start_time" binding:"required"`
	Party          PartyRequest `json:"party" binding:"required"`
	PickupLocation string       `json:"pickup_location"`
	Contact        ContactInfo  `json:"contact" binding:"required"`
}

// CheckoutRequest converts the whole cart into bookings
type CheckoutRequest struct {
	Contact ContactInfo `json:"contact" binding:"required"`
}

// CheckoutResult summarises a batch of independent commit attempts. The
// batch itself always succeeds; per-item failures surface as warnings.
// AllFailed flags the zero-bookings case explicitly so callers need not
// infer it from TotalBookings.
type CheckoutResult struct {
	BookingIDs    []uuid.UUID `json:"booking_ids"`
	References    []string    `json:"references"`
	TotalBookings int         `json:"total_bookings"`
	ExpiredCount  int         `json:"expired_count"`
	Warnings      []string    `json:"warnings"`
	AllFailed     bool        `json:"all_failed"`
}
