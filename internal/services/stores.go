package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/islandhop/booking-backend/internal/models"
)

// Store interfaces consumed by the services. The database package provides
// the Postgres implementations; tests substitute in-memory fakes.

// SlotStore is the capacity ledger. Reserve and Release are the only
// operations allowed to change booked_count, and both are atomic
// conditional updates.
type SlotStore interface {
	GetAvailability(packageID uuid.UUID, date time.Time) ([]models.Slot, error)
	GetSlot(key models.SlotKey) (*models.Slot, error)
	Reserve(key models.SlotKey, delta int) error
	Release(key models.SlotKey, delta int) error
	CreateSlot(slot *models.Slot) error
	SetAvailability(key models.SlotKey, available bool) error
	SetCurrentMinimum(key models.SlotKey, minimum int) error
}

// PackageStore reads the package catalog.
type PackageStore interface {
	GetByID(packageID uuid.UUID) (*models.Package, error)
	ListByType(packageType models.PackageType) ([]models.Package, error)
}

// CartStore persists reservation intents.
type CartStore interface {
	AddIntent(intent *models.ReservationIntent) error
	GetIntent(intentID, userID uuid.UUID) (*models.ReservationIntent, error)
	ListByUser(userID uuid.UUID) ([]models.ReservationIntent, error)
	CountByUser(userID uuid.UUID) (int, error)
	UpdateIntent(intent *models.ReservationIntent) error
	RemoveIntent(intentID, userID uuid.UUID) error
	Clear(userID uuid.UUID) error
}

// BookingStore persists committed bookings.
type BookingStore interface {
	Create(booking *models.Booking) error
	GetByID(bookingID uuid.UUID) (*models.Booking, error)
	GetByReference(reference string) (*models.Booking, error)
	ListByUser(userID uuid.UUID, limit, offset int) ([]models.Booking, error)
	UpdateStatus(bookingID uuid.UUID, status models.BookingStatus) error
}
