package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/islandhop/booking-backend/internal/cache"
	"github.com/islandhop/booking-backend/internal/models"
)

// AvailabilityService serves the browse path: advisory slot snapshots for
// a package/date, cached for a short TTL. It also carries the operator
// slot management operations, which bypass the cache and invalidate it.
type AvailabilityService struct {
	slots  SlotStore
	cache  *cache.AvailabilityCache
	logger *logrus.Logger
}

// NewAvailabilityService creates a new AvailabilityService
func NewAvailabilityService(slots SlotStore, availCache *cache.AvailabilityCache, logger *logrus.Logger) *AvailabilityService {
	return &AvailabilityService{slots: slots, cache: availCache, logger: logger}
}

const (
	readRetries      = 2
	readRetryBackoff = 100 * time.Millisecond
)

// GetAvailability returns the slot snapshots for a package on a date. The
// result may trail the database by up to the cache TTL; nothing on the
// commit path consults it. Transient store failures on this read path are
// retried with backoff; commits never are.
func (s *AvailabilityService) GetAvailability(ctx context.Context, packageID uuid.UUID, date time.Time) ([]models.SlotAvailability, error) {
	if snapshot, ok := s.cache.Get(ctx, packageID, date); ok {
		return snapshot, nil
	}

	slots, err := s.slots.GetAvailability(packageID, date)
	for attempt := 1; err != nil && attempt <= readRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * readRetryBackoff):
		}
		s.logger.WithError(err).WithField("attempt", attempt).Warn("Retrying availability fetch")
		slots, err = s.slots.GetAvailability(packageID, date)
	}
	if err != nil {
		return nil, err
	}

	snapshot := make([]models.SlotAvailability, 0, len(slots))
	for i := range slots {
		slot := &slots[i]
		snapshot = append(snapshot, models.SlotAvailability{
			PackageID:      slot.PackageID,
			Date:           slot.Date.Format("2006-01-02"),
			StartTime:      slot.StartTime,
			Capacity:       slot.Capacity,
			BookedCount:    slot.BookedCount,
			Remaining:      slot.Remaining(),
			IsAvailable:    slot.IsAvailable,
			CurrentMinimum: slot.CurrentMinimum,
		})
	}

	s.cache.Set(ctx, packageID, date, snapshot)
	return snapshot, nil
}

// ============================================================================
// OPERATOR SLOT MANAGEMENT
// ============================================================================

// CreateSlot opens a new date/time for a package.
func (s *AvailabilityService) CreateSlot(ctx context.Context, req *models.CreateSlotRequest) (*models.Slot, error) {
	packageID, date, err := parseSlotTarget(req.PackageID, req.Date, req.StartTime)
	if err != nil {
		return nil, err
	}

	slot := &models.Slot{
		PackageID:      packageID,
		Date:           date,
		StartTime:      req.StartTime,
		Capacity:       req.Capacity,
		CurrentMinimum: req.CurrentMinimum,
	}
	if err := s.slots.CreateSlot(slot); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, packageID, date)
	s.logger.WithFields(logrus.Fields{
		"package_id": packageID,
		"date":       req.Date,
		"start_time": req.StartTime,
		"capacity":   req.Capacity,
	}).Info("Slot created")
	return slot, nil
}

// SetAvailability toggles the operator override on a slot.
func (s *AvailabilityService) SetAvailability(ctx context.Context, req *models.SetSlotAvailabilityRequest) error {
	packageID, date, err := parseSlotTarget(req.PackageID, req.Date, req.StartTime)
	if err != nil {
		return err
	}

	key := models.SlotKey{PackageID: packageID, Date: date, StartTime: req.StartTime}
	if err := s.slots.SetAvailability(key, req.IsAvailable); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, packageID, date)
	s.logger.WithFields(logrus.Fields{
		"package_id":   packageID,
		"date":         req.Date,
		"start_time":   req.StartTime,
		"is_available": req.IsAvailable,
	}).Info("Slot availability updated")
	return nil
}

// SetCurrentMinimum raises or lowers a slot's headcount floor.
func (s *AvailabilityService) SetCurrentMinimum(ctx context.Context, req *models.SetSlotMinimumRequest) error {
	packageID, date, err := parseSlotTarget(req.PackageID, req.Date, req.StartTime)
	if err != nil {
		return err
	}

	key := models.SlotKey{PackageID: packageID, Date: date, StartTime: req.StartTime}
	if err := s.slots.SetCurrentMinimum(key, req.CurrentMinimum); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, packageID, date)
	s.logger.WithFields(logrus.Fields{
		"package_id":      packageID,
		"date":            req.Date,
		"start_time":      req.StartTime,
		"current_minimum": req.CurrentMinimum,
	}).Info("Slot minimum updated")
	return nil
}

// parseSlotTarget parses the string form of a slot triple used in requests.
func parseSlotTarget(packageID, date, startTime string) (uuid.UUID, time.Time, error) {
	id, err := uuid.Parse(packageID)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("invalid package id: %w", err)
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	if _, err := time.Parse("15:04", startTime); err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("invalid start time %q, expected HH:MM", startTime)
	}
	return id, d, nil
}
