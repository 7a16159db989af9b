package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/islandhop/booking-backend/internal/models"
)

// BookingRepository persists committed bookings. Rows are created only by
// the checkout path after a successful reserve.
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	id, booking_reference, user_id, package_id, package_title, travel_date,
	start_time, adults, children, pickup_location, contact_name,
	contact_email, contact_phone, total_price, status, created_at, updated_at`

// Create inserts a committed booking
func (r *BookingRepository) Create(booking *models.Booking) error {
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	if booking.Status == "" {
		booking.Status = models.BookingStatusConfirmed
	}

	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.db.Exec(query,
		booking.ID, booking.BookingReference, booking.UserID, booking.PackageID,
		booking.PackageTitle, booking.TravelDate.Format("2006-01-02"), booking.StartTime,
		booking.Adults, booking.Children, booking.PickupLocation,
		booking.ContactName, booking.ContactEmail, booking.ContactPhone,
		booking.TotalPrice, booking.Status, booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID uuid.UUID) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking models.Booking
	err := r.db.Get(&booking, query, bookingID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

// GetByReference retrieves a booking by its human-facing reference
func (r *BookingRepository) GetByReference(reference string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_reference = $1`

	var booking models.Booking
	err := r.db.Get(&booking, query, reference)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

// ListByUser returns a user's bookings, newest first
func (r *BookingRepository) ListByUser(userID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var bookings []models.Booking
	err := r.db.Select(&bookings, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// UpdateStatus transitions a booking's status. Cancellation is restricted
// to non-cancelled bookings so the slot release cannot run twice.
func (r *BookingRepository) UpdateStatus(bookingID uuid.UUID, status models.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status != 'cancelled'`

	result, err := r.db.Exec(query, bookingID, status)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("booking not found or already cancelled")
	}
	return nil
}
