package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/islandhop/booking-backend/internal/models"
)

// SlotRepository is the single source of truth for slot capacity. Reserve
// and Release are the only mutators of booked_count anywhere in the system.
type SlotRepository struct {
	db DB
}

// NewSlotRepository creates a new SlotRepository
func NewSlotRepository(db DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// ============================================================================
// READ OPERATIONS
// ============================================================================

// GetAvailability returns all slots for a package on a date, ordered by
// start time. The result is an advisory snapshot.
func (r *SlotRepository) GetAvailability(packageID uuid.UUID, date time.Time) ([]models.Slot, error) {
	query := `
		SELECT id, package_id, date, start_time, capacity, booked_count,
		       is_available, current_minimum, created_at, updated_at
		FROM slots
		WHERE package_id = $1 AND date = $2
		ORDER BY start_time`

	var slots []models.Slot
	err := r.db.Select(&slots, query, packageID, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability: %w", err)
	}
	return slots, nil
}

// GetSlot fetches the current state of one slot by its identifying triple.
func (r *SlotRepository) GetSlot(key models.SlotKey) (*models.Slot, error) {
	query := `
		SELECT id, package_id, date, start_time, capacity, booked_count,
		       is_available, current_minimum, created_at, updated_at
		FROM slots
		WHERE package_id = $1 AND date = $2 AND start_time = $3`

	var slot models.Slot
	err := r.db.Get(&slot, query, key.PackageID, key.Date.Format("2006-01-02"), key.StartTime)
	if err == sql.ErrNoRows {
		return nil, models.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slot: %w", err)
	}
	return &slot, nil
}

// ============================================================================
// RESERVE / RELEASE (the only booked_count mutators)
// ============================================================================

// Reserve atomically adds delta guests to the slot's booked_count. The
// capacity check and the write happen in one conditional UPDATE, so the
// invariant 0 <= booked_count <= capacity holds under any interleaving of
// concurrent callers. Callers must never pre-compute remaining capacity
// and trust it; their snapshot may be 30 seconds stale.
//
// Returns models.ErrCapacityExceeded when the slot cannot take delta more
// guests (or is closed) - an expected contention outcome, distinct from
// database errors.
func (r *SlotRepository) Reserve(key models.SlotKey, delta int) error {
	if delta <= 0 {
		return fmt.Errorf("reserve delta must be positive, got %d", delta)
	}

	query := `
		UPDATE slots
		SET booked_count = booked_count + $4, updated_at = NOW()
		WHERE package_id = $1 AND date = $2 AND start_time = $3
		  AND is_available = TRUE
		  AND booked_count + $4 <= capacity`

	result, err := r.db.Exec(query, key.PackageID, key.Date.Format("2006-01-02"), key.StartTime, delta)
	if err != nil {
		return fmt.Errorf("failed to reserve slot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read reserve result: %w", err)
	}
	if rows == 0 {
		// Distinguish a full slot from a missing one
		if _, getErr := r.GetSlot(key); getErr != nil {
			return getErr
		}
		return models.ErrCapacityExceeded
	}
	return nil
}

// Release atomically removes delta guests from booked_count, used when a
// booking is cancelled. The floor guard keeps the invariant symmetric.
func (r *SlotRepository) Release(key models.SlotKey, delta int) error {
	if delta <= 0 {
		return fmt.Errorf("release delta must be positive, got %d", delta)
	}

	query := `
		UPDATE slots
		SET booked_count = booked_count - $4, updated_at = NOW()
		WHERE package_id = $1 AND date = $2 AND start_time = $3
		  AND booked_count - $4 >= 0`

	result, err := r.db.Exec(query, key.PackageID, key.Date.Format("2006-01-02"), key.StartTime, delta)
	if err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read release result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("release of %d guests would underflow slot %s/%s", delta,
			key.Date.Format("2006-01-02"), key.StartTime)
	}
	return nil
}

// ============================================================================
// OPERATOR OPERATIONS
// ============================================================================

// CreateSlot opens a date/time for a package. Fails on duplicate triple.
func (r *SlotRepository) CreateSlot(slot *models.Slot) error {
	slot.ID = uuid.New()
	slot.CreatedAt = time.Now()
	slot.UpdatedAt = slot.CreatedAt

	query := `
		INSERT INTO slots (
			id, package_id, date, start_time, capacity, booked_count,
			is_available, current_minimum, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, 0, TRUE, $6, $7, $8)`

	_, err := r.db.Exec(query,
		slot.ID, slot.PackageID, slot.Date.Format("2006-01-02"), slot.StartTime,
		slot.Capacity, slot.CurrentMinimum, slot.CreatedAt, slot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create slot: %w", err)
	}
	slot.BookedCount = 0
	slot.IsAvailable = true
	return nil
}

// SetAvailability toggles the operator override on a slot.
func (r *SlotRepository) SetAvailability(key models.SlotKey, available bool) error {
	query := `
		UPDATE slots
		SET is_available = $4, updated_at = NOW()
		WHERE package_id = $1 AND date = $2 AND start_time = $3`

	result, err := r.db.Exec(query, key.PackageID, key.Date.Format("2006-01-02"), key.StartTime, available)
	if err != nil {
		return fmt.Errorf("failed to update slot availability: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.ErrSlotNotFound
	}
	return nil
}

// SetCurrentMinimum raises or lowers the per-slot headcount floor.
func (r *SlotRepository) SetCurrentMinimum(key models.SlotKey, minimum int) error {
	if minimum < 0 {
		return fmt.Errorf("slot minimum cannot be negative, got %d", minimum)
	}

	query := `
		UPDATE slots
		SET current_minimum = $4, updated_at = NOW()
		WHERE package_id = $1 AND date = $2 AND start_time = $3`

	result, err := r.db.Exec(query, key.PackageID, key.Date.Format("2006-01-02"), key.StartTime, minimum)
	if err != nil {
		return fmt.Errorf("failed to update slot minimum: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.ErrSlotNotFound
	}
	return nil
}
