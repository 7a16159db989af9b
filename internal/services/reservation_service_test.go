package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/islandhop/booking-backend/internal/cache"
	"github.com/islandhop/booking-backend/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func noCache() *cache.AvailabilityCache {
	return cache.NewAvailabilityCache(nil, 30*time.Second)
}

func testContact() models.ContactInfo {
	return models.ContactInfo{Name: "Nimal Perera", Email: "nimal@example.com", Phone: "+94771234567"}
}

func intPtr(v int) *int { return &v }

type fixture struct {
	slots    *memSlotStore
	packages *memPackageStore
	bookings *memBookingStore
	svc      *ReservationService
	pkg      *models.Package
	key      models.SlotKey
}

func newFixture(t *testing.T, pkg *models.Package, capacity, booked int) *fixture {
	t.Helper()

	slots := newMemSlotStore()
	date := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	slots.put(&models.Slot{
		PackageID:   pkg.ID,
		Date:        date,
		StartTime:   "09:00",
		Capacity:    capacity,
		BookedCount: booked,
		IsAvailable: true,
	})

	bookings := newMemBookingStore()
	packages := newMemPackageStore(pkg)
	svc := NewReservationService(packages, slots, bookings, noCache(), testLogger())

	return &fixture{
		slots:    slots,
		packages: packages,
		bookings: bookings,
		svc:      svc,
		pkg:      pkg,
		key:      models.SlotKey{PackageID: pkg.ID, Date: date, StartTime: "09:00"},
	}
}

func sharedTourPackage() *models.Package {
	return &models.Package{
		ID:            uuid.New(),
		Title:         "Sigiriya Day Tour",
		PackageType:   models.PackageTypeTour,
		Subtype:       models.SubtypeShared,
		MinimumPerson: 1,
		MaximumPerson: intPtr(30),
		BasePrice:     100,
		ChildPrice:    50,
	}
}

func TestCommit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, sharedTourPackage(), 10, 0)

		booking, err := f.svc.Commit(ctx, userID, f.key, models.PartyRequest{Adults: 2, Children: 1},
			"Colombo Fort", testContact())
		require.NoError(t, err)

		assert.Equal(t, userID, booking.UserID)
		assert.Equal(t, "Sigiriya Day Tour", booking.PackageTitle)
		assert.Equal(t, 250.0, booking.TotalPrice)
		assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
		assert.Regexp(t, `^BK-[A-Z2-9]{8}$`, booking.BookingReference)

		slot, err := f.slots.GetSlot(f.key)
		require.NoError(t, err)
		assert.Equal(t, 3, slot.BookedCount)

		stored, err := f.bookings.GetByID(booking.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, booking.BookingReference, stored.BookingReference)
	})

	t.Run("Revalidates Against Current Slot State", func(t *testing.T) {
		f := newFixture(t, sharedTourPackage(), 10, 0)

		// quote passes, then an operator closes the slot
		_, err := f.svc.Evaluate(f.key, models.PartyRequest{Adults: 2})
		require.NoError(t, err)
		require.NoError(t, f.slots.SetAvailability(f.key, false))

		_, err = f.svc.Commit(ctx, userID, f.key, models.PartyRequest{Adults: 2}, "", testContact())
		require.Error(t, err)
		assert.True(t, models.IsValidation(err))

		slot, _ := f.slots.GetSlot(f.key)
		assert.Zero(t, slot.BookedCount)
	})

	t.Run("Capacity Exhausted Between Quote And Commit", func(t *testing.T) {
		f := newFixture(t, sharedTourPackage(), 10, 9)

		_, err := f.svc.Commit(ctx, userID, f.key, models.PartyRequest{Adults: 2}, "", testContact())
		require.Error(t, err)
		assert.True(t, models.IsValidation(err))
	})

	t.Run("Insert Failure Rolls Back Reserve", func(t *testing.T) {
		f := newFixture(t, sharedTourPackage(), 10, 0)
		f.bookings.failNext = true

		_, err := f.svc.Commit(ctx, userID, f.key, models.PartyRequest{Adults: 2}, "", testContact())
		require.Error(t, err)

		slot, _ := f.slots.GetSlot(f.key)
		assert.Zero(t, slot.BookedCount)
	})

	t.Run("Unknown Slot", func(t *testing.T) {
		f := newFixture(t, sharedTourPackage(), 10, 0)
		missing := f.key
		missing.StartTime = "23:00"

		_, err := f.svc.Commit(ctx, userID, missing, models.PartyRequest{Adults: 1}, "", testContact())
		assert.ErrorIs(t, err, models.ErrSlotNotFound)
	})
}

// Two concurrent commits race for the last seat. Exactly one must win and
// the slot must never exceed capacity.
func TestCommitConcurrency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, sharedTourPackage(), 10, 9)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Commit(ctx, uuid.New(), f.key,
				models.PartyRequest{Adults: 1}, "", testContact())
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		}
	}
	assert.Equal(t, 1, successes)

	slot, err := f.slots.GetSlot(f.key)
	require.NoError(t, err)
	assert.Equal(t, 10, slot.BookedCount)
	assert.LessOrEqual(t, slot.BookedCount, slot.Capacity)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	f := newFixture(t, sharedTourPackage(), 10, 0)

	booking, err := f.svc.Commit(ctx, userID, f.key, models.PartyRequest{Adults: 2, Children: 1},
		"", testContact())
	require.NoError(t, err)

	t.Run("Releases Seats", func(t *testing.T) {
		require.NoError(t, f.svc.Cancel(ctx, booking.ID, userID))

		slot, _ := f.slots.GetSlot(f.key)
		assert.Zero(t, slot.BookedCount)

		stored, _ := f.bookings.GetByID(booking.ID)
		assert.Equal(t, models.BookingStatusCancelled, stored.Status)
	})

	t.Run("Second Cancel Does Not Release Twice", func(t *testing.T) {
		err := f.svc.Cancel(ctx, booking.ID, userID)
		require.Error(t, err)

		slot, _ := f.slots.GetSlot(f.key)
		assert.Zero(t, slot.BookedCount)
	})

	t.Run("Scoped To Owner", func(t *testing.T) {
		other, err := f.svc.Commit(ctx, userID, f.key, models.PartyRequest{Adults: 1}, "", testContact())
		require.NoError(t, err)

		err = f.svc.Cancel(ctx, other.ID, uuid.New())
		require.Error(t, err)

		stored, _ := f.bookings.GetByID(other.ID)
		assert.Equal(t, models.BookingStatusConfirmed, stored.Status)
	})
}

func TestEvaluate(t *testing.T) {
	f := newFixture(t, sharedTourPackage(), 10, 0)

	t.Run("Prices Without Reserving", func(t *testing.T) {
		quote, err := f.svc.Evaluate(f.key, models.PartyRequest{Adults: 2, Children: 2})
		require.NoError(t, err)
		assert.Equal(t, 300.0, quote.TotalPrice)

		slot, _ := f.slots.GetSlot(f.key)
		assert.Zero(t, slot.BookedCount)
	})

	t.Run("Unknown Package", func(t *testing.T) {
		key := f.key
		key.PackageID = uuid.New()
		_, err := f.svc.Evaluate(key, models.PartyRequest{Adults: 1})
		assert.ErrorIs(t, err, models.ErrPackageNotFound)
	})
}
