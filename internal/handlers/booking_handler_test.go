package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/islandhop/booking-backend/internal/cache"
	"github.com/islandhop/booking-backend/internal/middleware"
	"github.com/islandhop/booking-backend/internal/models"
	"github.com/islandhop/booking-backend/internal/services"
)

// Single-slot stub stores, enough to drive the HTTP surface.

type stubPackages struct {
	pkg *models.Package
}

func (s *stubPackages) GetByID(packageID uuid.UUID) (*models.Package, error) {
	if s.pkg != nil && s.pkg.ID == packageID {
		return s.pkg, nil
	}
	return nil, models.ErrPackageNotFound
}

func (s *stubPackages) ListByType(packageType models.PackageType) ([]models.Package, error) {
	if s.pkg != nil && s.pkg.PackageType == packageType {
		return []models.Package{*s.pkg}, nil
	}
	return nil, nil
}

type stubSlots struct {
	slot *models.Slot
}

func (s *stubSlots) matches(key models.SlotKey) bool {
	return s.slot != nil && s.slot.PackageID == key.PackageID &&
		s.slot.Date.Format("2006-01-02") == key.Date.Format("2006-01-02") &&
		s.slot.StartTime == key.StartTime
}

func (s *stubSlots) GetAvailability(packageID uuid.UUID, date time.Time) ([]models.Slot, error) {
	if s.slot != nil && s.slot.PackageID == packageID {
		return []models.Slot{*s.slot}, nil
	}
	return nil, nil
}

func (s *stubSlots) GetSlot(key models.SlotKey) (*models.Slot, error) {
	if !s.matches(key) {
		return nil, models.ErrSlotNotFound
	}
	copied := *s.slot
	return &copied, nil
}

func (s *stubSlots) Reserve(key models.SlotKey, delta int) error {
	if !s.matches(key) {
		return models.ErrSlotNotFound
	}
	if !s.slot.IsAvailable || s.slot.BookedCount+delta > s.slot.Capacity {
		return models.ErrCapacityExceeded
	}
	s.slot.BookedCount += delta
	return nil
}

func (s *stubSlots) Release(key models.SlotKey, delta int) error {
	s.slot.BookedCount -= delta
	return nil
}

func (s *stubSlots) CreateSlot(slot *models.Slot) error                       { return nil }
func (s *stubSlots) SetAvailability(key models.SlotKey, available bool) error { return nil }
func (s *stubSlots) SetCurrentMinimum(key models.SlotKey, minimum int) error  { return nil }

type stubBookings struct {
	created []*models.Booking
}

func (s *stubBookings) Create(booking *models.Booking) error {
	booking.ID = uuid.New()
	s.created = append(s.created, booking)
	return nil
}

func (s *stubBookings) GetByID(bookingID uuid.UUID) (*models.Booking, error) {
	for _, b := range s.created {
		if b.ID == bookingID {
			return b, nil
		}
	}
	return nil, nil
}

func (s *stubBookings) GetByReference(reference string) (*models.Booking, error) { return nil, nil }

func (s *stubBookings) ListByUser(userID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	return nil, nil
}

func (s *stubBookings) UpdateStatus(bookingID uuid.UUID, status models.BookingStatus) error {
	return nil
}

type handlerFixture struct {
	router *gin.Engine
	slots  *stubSlots
	pkg    *models.Package
	userID uuid.UUID
}

func newHandlerFixture(t *testing.T, capacity, booked int) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pkg := &models.Package{
		ID:            uuid.New(),
		Title:         "Sigiriya Day Tour",
		PackageType:   models.PackageTypeTour,
		Subtype:       models.SubtypeShared,
		MinimumPerson: 1,
		BasePrice:     100,
		ChildPrice:    50,
	}
	slots := &stubSlots{slot: &models.Slot{
		PackageID:   pkg.ID,
		Date:        time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		StartTime:   "09:00",
		Capacity:    capacity,
		BookedCount: booked,
		IsAvailable: true,
	}}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	noCache := cache.NewAvailabilityCache(nil, 30*time.Second)
	reservations := services.NewReservationService(&stubPackages{pkg: pkg}, slots,
		&stubBookings{}, noCache, logger)
	handler := NewBookingHandler(reservations)

	userID := uuid.New()
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserContextKey, middleware.UserContext{UserID: userID})
		c.Next()
	})
	router.POST("/quote", handler.Quote)
	router.POST("/bookings", handler.CreateBooking)

	return &handlerFixture{router: router, slots: slots, pkg: pkg, userID: userID}
}

func (f *handlerFixture) post(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)
	return w
}

func TestQuoteEndpoint(t *testing.T) {
	f := newHandlerFixture(t, 20, 0)

	t.Run("Success", func(t *testing.T) {
		w := f.post(t, "/quote", models.QuoteRequest{
			PackageID: f.pkg.ID.String(),
			Date:      "2026-09-20",
			StartTime: "09:00",
			Party:     models.PartyRequest{Adults: 2, Children: 1},
		})
		require.Equal(t, http.StatusOK, w.Code)

		var quote models.Quote
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
		assert.Equal(t, 250.0, quote.TotalPrice)
	})

	t.Run("Validation Rejection Is 400 With Code", func(t *testing.T) {
		w := f.post(t, "/quote", models.QuoteRequest{
			PackageID: f.pkg.ID.String(),
			Date:      "2026-09-20",
			StartTime: "09:00",
			Party:     models.PartyRequest{Adults: 0, Children: 2},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), models.RejectionNoAdults)
	})

	t.Run("Unknown Slot Is 404", func(t *testing.T) {
		w := f.post(t, "/quote", models.QuoteRequest{
			PackageID: f.pkg.ID.String(),
			Date:      "2026-09-20",
			StartTime: "23:00",
			Party:     models.PartyRequest{Adults: 2},
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Bad Date Format Is 400", func(t *testing.T) {
		w := f.post(t, "/quote", models.QuoteRequest{
			PackageID: f.pkg.ID.String(),
			Date:      "20-09-2026",
			StartTime: "09:00",
			Party:     models.PartyRequest{Adults: 2},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateBookingEndpoint(t *testing.T) {
	contact := models.ContactInfo{Name: "Nimal Perera", Email: "nimal@example.com", Phone: "0771234567"}

	commitBody := func(pkgID uuid.UUID, adults int) models.CommitRequest {
		return models.CommitRequest{
			PackageID: pkgID.String(),
			Date:      "2026-09-20",
			StartTime: "09:00",
			Party:     models.PartyRequest{Adults: adults},
			Contact:   contact,
		}
	}

	t.Run("Success", func(t *testing.T) {
		f := newHandlerFixture(t, 20, 0)
		w := f.post(t, "/bookings", commitBody(f.pkg.ID, 2))
		require.Equal(t, http.StatusCreated, w.Code)

		var booking models.Booking
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
		assert.Equal(t, f.userID, booking.UserID)
		assert.Equal(t, 200.0, booking.TotalPrice)
		assert.Equal(t, 2, f.slots.slot.BookedCount)
	})

	t.Run("Full Slot Is Rejected", func(t *testing.T) {
		f := newHandlerFixture(t, 2, 2)
		w := f.post(t, "/bookings", commitBody(f.pkg.ID, 1))
		// the snapshot check catches this before the atomic reserve
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), models.RejectionInsufficient)
	})

	t.Run("Invalid Contact Is Rejected", func(t *testing.T) {
		f := newHandlerFixture(t, 20, 0)
		body := commitBody(f.pkg.ID, 2)
		body.Contact.Phone = "12345"
		w := f.post(t, "/bookings", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_contact")
		assert.Zero(t, f.slots.slot.BookedCount)
	})
}
