package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/islandhop/booking-backend/internal/cache"
	"github.com/islandhop/booking-backend/internal/models"
	"github.com/islandhop/booking-backend/internal/rules"
	"github.com/islandhop/booking-backend/internal/utils"
)

// ReservationService turns a validated request into a committed booking.
// Commit is two-phase: re-run the eligibility rules against fresh state,
// then take capacity with a single atomic reserve. A quote passing earlier
// guarantees nothing at commit time.
type ReservationService struct {
	packages PackageStore
	slots    SlotStore
	bookings BookingStore
	cache    *cache.AvailabilityCache
	logger   *logrus.Logger
}

// NewReservationService creates a new ReservationService
func NewReservationService(
	packages PackageStore,
	slots SlotStore,
	bookings BookingStore,
	availCache *cache.AvailabilityCache,
	logger *logrus.Logger,
) *ReservationService {
	return &ReservationService{
		packages: packages,
		slots:    slots,
		bookings: bookings,
		cache:    availCache,
		logger:   logger,
	}
}

// Evaluate prices a proposed party against a slot without reserving
// anything. The returned quote is advisory.
func (s *ReservationService) Evaluate(key models.SlotKey, party models.PartyRequest) (*models.Quote, error) {
	pkg, err := s.packages.GetByID(key.PackageID)
	if err != nil {
		return nil, err
	}
	slot, err := s.slots.GetSlot(key)
	if err != nil {
		return nil, err
	}
	return rules.Evaluate(pkg, slot, party)
}

// Commit books a slot for a party. It re-validates against current slot
// state, reserves capacity atomically, then persists the booking. The
// price is always recomputed here; prices carried in carts or requests are
// display copy.
func (s *ReservationService) Commit(
	ctx context.Context,
	userID uuid.UUID,
	key models.SlotKey,
	party models.PartyRequest,
	pickupLocation string,
	contact models.ContactInfo,
) (*models.Booking, error) {
	pkg, err := s.packages.GetByID(key.PackageID)
	if err != nil {
		return nil, err
	}
	slot, err := s.slots.GetSlot(key)
	if err != nil {
		return nil, err
	}

	quote, err := rules.Evaluate(pkg, slot, party)
	if err != nil {
		return nil, err
	}

	if err := s.slots.Reserve(key, party.TotalGuests()); err != nil {
		return nil, err
	}

	reference, err := utils.GenerateBookingReference()
	if err != nil {
		s.rollbackReserve(key, party.TotalGuests())
		return nil, err
	}

	booking := &models.Booking{
		BookingReference: reference,
		UserID:           userID,
		PackageID:        key.PackageID,
		PackageTitle:     pkg.Title,
		TravelDate:       key.Date,
		StartTime:        key.StartTime,
		Adults:           party.Adults,
		Children:         party.Children,
		PickupLocation:   pickupLocation,
		ContactName:      contact.Name,
		ContactEmail:     contact.Email,
		ContactPhone:     contact.Phone,
		TotalPrice:       quote.TotalPrice,
		Status:           models.BookingStatusConfirmed,
	}
	if err := s.bookings.Create(booking); err != nil {
		// reserved seats must not leak when the insert fails
		s.rollbackReserve(key, party.TotalGuests())
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	s.cache.Invalidate(ctx, key.PackageID, key.Date)
	s.logger.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"reference":   booking.BookingReference,
		"user_id":     userID,
		"package_id":  key.PackageID,
		"date":        key.Date.Format("2006-01-02"),
		"start_time":  key.StartTime,
		"guests":      party.TotalGuests(),
		"total_price": quote.TotalPrice,
	}).Info("Booking committed")

	return booking, nil
}

// Cancel releases a booking's seats back to its slot. The status update is
// conditional on the booking not already being cancelled, which makes the
// release idempotent.
func (s *ReservationService) Cancel(ctx context.Context, bookingID, userID uuid.UUID) error {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return err
	}
	if booking == nil || booking.UserID != userID {
		return fmt.Errorf("booking not found")
	}

	if err := s.bookings.UpdateStatus(bookingID, models.BookingStatusCancelled); err != nil {
		return err
	}

	key := models.SlotKey{PackageID: booking.PackageID, Date: booking.TravelDate, StartTime: booking.StartTime}
	if err := s.slots.Release(key, booking.TotalGuests()); err != nil {
		// the booking is cancelled either way; the ledger needs attention
		s.logger.WithError(err).WithField("booking_id", bookingID).
			Error("Failed to release seats for cancelled booking")
		return err
	}

	s.cache.Invalidate(ctx, booking.PackageID, booking.TravelDate)
	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"user_id":    userID,
		"guests":     booking.TotalGuests(),
	}).Info("Booking cancelled")
	return nil
}

// GetBooking fetches one booking scoped to its owner.
func (s *ReservationService) GetBooking(bookingID, userID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil || booking.UserID != userID {
		return nil, fmt.Errorf("booking not found")
	}
	return booking, nil
}

// ListBookings returns a page of the user's bookings, newest first.
func (s *ReservationService) ListBookings(userID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookings.ListByUser(userID, limit, offset)
}

func (s *ReservationService) rollbackReserve(key models.SlotKey, guests int) {
	if err := s.slots.Release(key, guests); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"package_id": key.PackageID,
			"date":       key.Date.Format("2006-01-02"),
			"start_time": key.StartTime,
			"guests":     guests,
		}).Error("Failed to roll back reserve")
	}
}
