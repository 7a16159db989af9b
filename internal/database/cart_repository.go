package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/islandhop/booking-backend/internal/models"
)

// CartRepository persists each user's pending reservation intents. Intents
// are never mutated or deleted because they expired; expiry is computed at
// read time by the cart service.
type CartRepository struct {
	db DB
}

// NewCartRepository creates a new CartRepository
func NewCartRepository(db DB) *CartRepository {
	return &CartRepository{db: db}
}

const cartItemColumns = `
	id, user_id, package_id, package_title, travel_date, start_time,
	adults, children, pickup_location, total_price, created_at, updated_at`

// AddIntent appends a reservation intent to the user's cart
func (r *CartRepository) AddIntent(intent *models.ReservationIntent) error {
	intent.ID = uuid.New()
	intent.CreatedAt = time.Now()
	intent.UpdatedAt = intent.CreatedAt

	query := `
		INSERT INTO cart_items (` + cartItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(query,
		intent.ID, intent.UserID, intent.PackageID, intent.PackageTitle,
		intent.TravelDate.Format("2006-01-02"), intent.StartTime,
		intent.Adults, intent.Children, intent.PickupLocation,
		intent.TotalPrice, intent.CreatedAt, intent.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// GetIntent retrieves one intent, scoped to its owner.
func (r *CartRepository) GetIntent(intentID, userID uuid.UUID) (*models.ReservationIntent, error) {
	query := `
		SELECT ` + cartItemColumns + `
		FROM cart_items
		WHERE id = $1 AND user_id = $2`

	var intent models.ReservationIntent
	err := r.db.Get(&intent, query, intentID, userID)
	if err == sql.ErrNoRows {
		return nil, models.ErrIntentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart item: %w", err)
	}
	return &intent, nil
}

// ListByUser returns all intents in a user's cart, oldest first
func (r *CartRepository) ListByUser(userID uuid.UUID) ([]models.ReservationIntent, error) {
	query := `
		SELECT ` + cartItemColumns + `
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at`

	var intents []models.ReservationIntent
	err := r.db.Select(&intents, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	return intents, nil
}

// CountByUser returns the number of items in a user's cart
func (r *CartRepository) CountByUser(userID uuid.UUID) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}
	return count, nil
}

// UpdateIntent rewrites the party and price snapshot of an intent.
func (r *CartRepository) UpdateIntent(intent *models.ReservationIntent) error {
	query := `
		UPDATE cart_items
		SET adults = $3, children = $4, pickup_location = $5,
		    total_price = $6, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(query,
		intent.ID, intent.UserID,
		intent.Adults, intent.Children, intent.PickupLocation, intent.TotalPrice,
	)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.ErrIntentNotFound
	}
	return nil
}

// RemoveIntent deletes one intent from the user's cart
func (r *CartRepository) RemoveIntent(intentID, userID uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, intentID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.ErrIntentNotFound
	}
	return nil
}

// Clear removes every intent from the user's cart
func (r *CartRepository) Clear(userID uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
