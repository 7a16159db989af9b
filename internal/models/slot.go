package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// SLOT MODEL (slots table)
// ============================================================================

// SlotKey identifies the reservable unit: one departure of one package.
type SlotKey struct {
	PackageID uuid.UUID `json:"package_id"`
	Date      time.Time `json:"date"`       // date only, time part ignored
	StartTime string    `json:"start_time"` // "15:04"
}

// Slot is the durable capacity record for a (package, date, time) triple.
// BookedCount is owned exclusively by SlotRepository.Reserve/Release;
// nothing else may read-modify-write it.
type Slot struct {
	ID             uuid.UUID `json:"id" db:"id"`
	PackageID      uuid.UUID `json:"package_id" db:"package_id"`
	Date           time.Time `json:"date" db:"date"`
	StartTime      string    `json:"start_time" db:"start_time"`
	Capacity       int       `json:"capacity" db:"capacity"`
	BookedCount    int       `json:"booked_count" db:"booked_count"`
	IsAvailable    bool      `json:"is_available" db:"is_available"` // operator override
	CurrentMinimum int       `json:"current_minimum" db:"current_minimum"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Key returns the slot's identifying triple.
func (s *Slot) Key() SlotKey {
	return SlotKey{PackageID: s.PackageID, Date: s.Date, StartTime: s.StartTime}
}

// Remaining returns the seats still open on the slot. This is a snapshot;
// only Reserve re-validates against current state.
func (s *Slot) Remaining() int {
	remaining := s.Capacity - s.BookedCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ============================================================================
// REQUEST / RESPONSE TYPES
// ============================================================================

// CreateSlotRequest opens a date/time for a package (operator action)
type CreateSlotRequest struct {
	PackageID      string `json:"package_id" binding:"required,uuid"`
	Date           string `json:"date" binding:"required"` // "2006-01-02"
	StartTime      string `json:"start_time" binding:"required"`
	Capacity       int    `json:"capacity" binding:"required,min=1"`
	CurrentMinimum int    `json:"current_minimum" binding:"min=0"`
}

// SetSlotAvailabilityRequest toggles the operator availability override
type SetSlotAvailabilityRequest struct {
	PackageID   string `json:"package_id" binding:"required,uuid"`
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	IsAvailable bool   `json:"is_available"`
}

// SetSlotMinimumRequest raises or lowers the per-slot headcount floor
type SetSlotMinimumRequest struct {
	PackageID      string `json:"package_id" binding:"required,uuid"`
	Date           string `json:"date" binding:"required"`
	StartTime      string `json:"start_time" binding:"required"`
	CurrentMinimum int    `json:"current_minimum" binding:"min=0"`
}

// SlotAvailability is the read-path projection returned to the UI.
// It is advisory only; the authoritative check happens at commit.
type SlotAvailability struct {
	PackageID      uuid.UUID `json:"package_id"`
	Date           string    `json:"date"`
	StartTime      string    `json:"start_time"`
	Capacity       int       `json:"capacity"`
	BookedCount    int       `json:"booked_count"`
	Remaining      int       `json:"remaining"`
	IsAvailable    bool      `json:"is_available"`
	CurrentMinimum int       `json:"current_minimum"`
}
