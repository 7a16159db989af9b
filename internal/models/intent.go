package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// PARTY REQUEST
// ============================================================================

// PartyRequest is the proposed guest composition for a booking. It is
// transient and rebuilt on every user action (add/remove guest); the
// eligibility rules re-validate the whole proposed party each time.
type PartyRequest struct {
	Adults   int `json:"adults" binding:"min=0"`
	Children int `json:"children" binding:"min=0"`
}

// TotalGuests returns adults + children.
func (p PartyRequest) TotalGuests() int {
	return p.Adults + p.Children
}

// ============================================================================
// RESERVATION INTENT (cart_items table)
// ============================================================================

// ReservationIntent is an unconfirmed candidate booking held in a user's
// cart. It carries its own snapshot of date/time/party/price; nothing in it
// is a commitment, and its price is recomputed at commit time.
//
// Expiry is derived, never stored: the intent is expired iff its travel
// date is strictly before today in the operating timezone.
type ReservationIntent struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	PackageID      uuid.UUID `json:"package_id" db:"package_id"`
	PackageTitle   string    `json:"package_title" db:"package_title"`
	TravelDate     time.Time `json:"travel_date" db:"travel_date"`
	StartTime      string    `json:"start_time" db:"start_time"`
	Adults         int       `json:"adults" db:"adults"`
	Children       int       `json:"children" db:"children"`
	PickupLocation string    `json:"pickup_location" db:"pickup_location"`
	TotalPrice     float64   `json:"total_price" db:"total_price"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Party returns the intent's guest composition.
func (i *ReservationIntent) Party() PartyRequest {
	return PartyRequest{Adults: i.Adults, Children: i.Children}
}

// SlotKey returns the slot the intent targets.
func (i *ReservationIntent) SlotKey() SlotKey {
	return SlotKey{PackageID: i.PackageID, Date: i.TravelDate, StartTime: i.StartTime}
}

// IsExpired reports whether the intent's travel date has passed, evaluated
// against "now" in the operating timezone. Read-time computation only.
func (i *ReservationIntent) IsExpired(now time.Time, loc *time.Location) bool {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	travel := time.Date(i.TravelDate.Year(), i.TravelDate.Month(), i.TravelDate.Day(), 0, 0, 0, 0, time.UTC)
	return travel.Before(today)
}

// ============================================================================
// REQUEST / RESPONSE TYPES
// ============================================================================

// AddIntentRequest adds a candidate reservation to the cart
type AddIntentRequest struct {
	PackageID      string       `json:"package_id" binding:"required,uuid"`
	Date           string       `json:"date" binding:"required"` // "2006-01-02"
	StartTime      string       `json:"start_time" binding:"required"`
	Party          PartyRequest `json:"party" binding:"required"`
	PickupLocation string       `json:"pickup_location"`
}

// UpdateIntentRequest changes the guest composition of a cart item. The new
// party replaces the old one and is validated as a whole, for increments
// and decrements alike.
type UpdateIntentRequest struct {
	Party          PartyRequest `json:"party" binding:"required"`
	PickupLocation *string      `json:"pickup_location,omitempty"`
}

// ActionableCart partitions a user's intents by the date-based expiry rule.
// Expired items stay in the cart until the user removes them.
type ActionableCart struct {
	Valid   []ReservationIntent `json:"valid"`
	Expired []ReservationIntent `json:"expired"`
}
