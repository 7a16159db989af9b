package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/islandhop/booking-backend/internal/models"
)

// CheckoutService owns the cart and the batch checkout. Cart items are
// unconfirmed intents; expiry is computed at read time from the travel
// date, and checkout commits each valid item independently. One slot
// filling up never blocks the rest of the batch.
type CheckoutService struct {
	cart         CartStore
	packages     PackageStore
	reservations *ReservationService
	location     *time.Location
	maxCartItems int
	logger       *logrus.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	cart CartStore,
	packages PackageStore,
	reservations *ReservationService,
	location *time.Location,
	maxCartItems int,
	logger *logrus.Logger,
) *CheckoutService {
	return &CheckoutService{
		cart:         cart,
		packages:     packages,
		reservations: reservations,
		location:     location,
		maxCartItems: maxCartItems,
		logger:       logger,
	}
}

// ============================================================================
// CART OPERATIONS
// ============================================================================

// AddIntent validates and prices a candidate reservation, then stores it in
// the user's cart. The stored price is a display snapshot; commit reprices.
func (s *CheckoutService) AddIntent(userID uuid.UUID, req *models.AddIntentRequest) (*models.ReservationIntent, error) {
	packageID, date, err := parseSlotTarget(req.PackageID, req.Date, req.StartTime)
	if err != nil {
		return nil, err
	}

	count, err := s.cart.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	if count >= s.maxCartItems {
		return nil, models.NewValidationError("cart_full",
			"cart is limited to %d items", s.maxCartItems)
	}

	pkg, err := s.packages.GetByID(packageID)
	if err != nil {
		return nil, err
	}

	key := models.SlotKey{PackageID: packageID, Date: date, StartTime: req.StartTime}
	quote, err := s.reservations.Evaluate(key, req.Party)
	if err != nil {
		return nil, err
	}

	intent := &models.ReservationIntent{
		UserID:         userID,
		PackageID:      packageID,
		PackageTitle:   pkg.Title,
		TravelDate:     date,
		StartTime:      req.StartTime,
		Adults:         req.Party.Adults,
		Children:       req.Party.Children,
		PickupLocation: req.PickupLocation,
		TotalPrice:     quote.TotalPrice,
	}
	if err := s.cart.AddIntent(intent); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"intent_id":  intent.ID,
		"package_id": packageID,
		"date":       req.Date,
	}).Info("Reservation intent added to cart")
	return intent, nil
}

// GetCart returns the user's intents partitioned into valid and expired.
// Expired items are reported, never silently dropped.
func (s *CheckoutService) GetCart(userID uuid.UUID) (*models.ActionableCart, error) {
	intents, err := s.cart.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := &models.ActionableCart{
		Valid:   []models.ReservationIntent{},
		Expired: []models.ReservationIntent{},
	}
	for _, intent := range intents {
		if intent.IsExpired(now, s.location) {
			result.Expired = append(result.Expired, intent)
		} else {
			result.Valid = append(result.Valid, intent)
		}
	}
	return result, nil
}

// UpdateIntent replaces the party of a cart item. The whole new party is
// re-validated and repriced; removing a guest goes through the same rules
// as adding one.
func (s *CheckoutService) UpdateIntent(userID, intentID uuid.UUID, req *models.UpdateIntentRequest) (*models.ReservationIntent, error) {
	intent, err := s.cart.GetIntent(intentID, userID)
	if err != nil {
		return nil, err
	}

	quote, err := s.reservations.Evaluate(intent.SlotKey(), req.Party)
	if err != nil {
		return nil, err
	}

	intent.Adults = req.Party.Adults
	intent.Children = req.Party.Children
	intent.TotalPrice = quote.TotalPrice
	if req.PickupLocation != nil {
		intent.PickupLocation = *req.PickupLocation
	}
	if err := s.cart.UpdateIntent(intent); err != nil {
		return nil, err
	}
	return intent, nil
}

// RemoveIntent deletes one item from the user's cart.
func (s *CheckoutService) RemoveIntent(userID, intentID uuid.UUID) error {
	return s.cart.RemoveIntent(intentID, userID)
}

// ClearCart empties the user's cart.
func (s *CheckoutService) ClearCart(userID uuid.UUID) error {
	return s.cart.Clear(userID)
}

// ============================================================================
// CHECKOUT
// ============================================================================

// CheckoutAll attempts to commit every valid intent in the user's cart.
// Each commit is independent: a failure is recorded as a warning and the
// batch carries on. Committed intents leave the cart; failed and expired
// ones stay for the user to fix. The batch itself never fails, even when
// zero bookings result; AllFailed marks that case.
func (s *CheckoutService) CheckoutAll(ctx context.Context, userID uuid.UUID, contact models.ContactInfo) (*models.CheckoutResult, error) {
	intents, err := s.cart.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := &models.CheckoutResult{
		BookingIDs: []uuid.UUID{},
		References: []string{},
		Warnings:   []string{},
	}
	attempted := 0

	for i := range intents {
		intent := &intents[i]

		if intent.IsExpired(now, s.location) {
			result.ExpiredCount++
			stale := &models.StaleIntentError{
				Title: intent.PackageTitle,
				Date:  intent.TravelDate.Format("2006-01-02"),
			}
			result.Warnings = append(result.Warnings, stale.Error())
			continue
		}

		attempted++
		booking, err := s.reservations.Commit(ctx, userID, intent.SlotKey(), intent.Party(),
			intent.PickupLocation, contact)
		if err != nil {
			result.Warnings = append(result.Warnings, s.describeFailure(intent, err))
			continue
		}

		result.BookingIDs = append(result.BookingIDs, booking.ID)
		result.References = append(result.References, booking.BookingReference)
		result.TotalBookings++

		if err := s.cart.RemoveIntent(intent.ID, userID); err != nil {
			// the booking stands; a leftover cart item is the lesser harm
			s.logger.WithError(err).WithField("intent_id", intent.ID).
				Warn("Failed to remove committed intent from cart")
		}
	}

	result.AllFailed = len(intents) > 0 && result.TotalBookings == 0

	s.logger.WithFields(logrus.Fields{
		"user_id":        userID,
		"cart_size":      len(intents),
		"attempted":      attempted,
		"total_bookings": result.TotalBookings,
		"expired":        result.ExpiredCount,
		"warnings":       len(result.Warnings),
	}).Info("Checkout completed")
	return result, nil
}

// CheckoutOne commits a single cart item. Unlike the batch path, failures
// here are returned as errors.
func (s *CheckoutService) CheckoutOne(ctx context.Context, userID, intentID uuid.UUID, contact models.ContactInfo) (*models.Booking, error) {
	intent, err := s.cart.GetIntent(intentID, userID)
	if err != nil {
		return nil, err
	}

	if intent.IsExpired(time.Now(), s.location) {
		return nil, &models.StaleIntentError{
			Title: intent.PackageTitle,
			Date:  intent.TravelDate.Format("2006-01-02"),
		}
	}

	booking, err := s.reservations.Commit(ctx, userID, intent.SlotKey(), intent.Party(),
		intent.PickupLocation, contact)
	if err != nil {
		return nil, err
	}

	if err := s.cart.RemoveIntent(intentID, userID); err != nil {
		s.logger.WithError(err).WithField("intent_id", intentID).
			Warn("Failed to remove committed intent from cart")
	}
	return booking, nil
}

func (s *CheckoutService) describeFailure(intent *models.ReservationIntent, err error) string {
	switch {
	case errors.Is(err, models.ErrCapacityExceeded):
		return fmt.Sprintf("%s: slot full", intent.PackageTitle)
	case errors.Is(err, models.ErrSlotNotFound):
		return fmt.Sprintf("%s: slot no longer offered", intent.PackageTitle)
	case models.IsValidation(err):
		return fmt.Sprintf("%s: %s", intent.PackageTitle, err.Error())
	default:
		s.logger.WithError(err).WithField("intent_id", intent.ID).
			Error("Checkout item failed")
		return fmt.Sprintf("%s: could not be booked", intent.PackageTitle)
	}
}
