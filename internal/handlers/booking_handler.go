package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/islandhop/booking-backend/internal/middleware"
	"github.com/islandhop/booking-backend/internal/models"
	"github.com/islandhop/booking-backend/internal/services"
	"github.com/islandhop/booking-backend/pkg/validator"
)

// BookingHandler handles quotes, direct bookings and cancellations
type BookingHandler struct {
	reservations *services.ReservationService
	contacts     *validator.ContactValidator
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(reservations *services.ReservationService) *BookingHandler {
	return &BookingHandler{
		reservations: reservations,
		contacts:     validator.NewContactValidator(),
	}
}

// Quote prices a proposed party against a slot without reserving anything
// POST /api/v1/quote
func (h *BookingHandler) Quote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	key, ok := parseSlotParams(c, req.PackageID, req.Date, req.StartTime)
	if !ok {
		return
	}

	quote, err := h.reservations.Evaluate(key, req.Party)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// CreateBooking books a slot directly, bypassing the cart
// POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	key, ok := parseSlotParams(c, req.PackageID, req.Date, req.StartTime)
	if !ok {
		return
	}
	contact, ok := h.validContact(c, req.Contact)
	if !ok {
		return
	}

	booking, err := h.reservations.Commit(c.Request.Context(), userCtx.UserID, key,
		req.Party, req.PickupLocation, contact)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// ListBookings returns a page of the user's bookings
// GET /api/v1/bookings?limit=20&offset=0
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	bookings, err := h.reservations.ListBookings(userCtx.UserID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// GetBooking returns one of the user's bookings
// GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id", "message": "Booking ID must be a UUID"})
		return
	}

	booking, err := h.reservations.GetBooking(bookingID, userCtx.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Booking not found"})
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CancelBooking cancels a booking and releases its seats
// POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id", "message": "Booking ID must be a UUID"})
		return
	}

	if err := h.reservations.Cancel(c.Request.Context(), bookingID, userCtx.UserID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Booking not found or already cancelled"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking cancelled"})
}

func (h *BookingHandler) validContact(c *gin.Context, contact models.ContactInfo) (models.ContactInfo, bool) {
	if err := h.contacts.ValidateName(contact.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_contact", "message": err.Error()})
		return contact, false
	}
	if err := h.contacts.ValidateEmail(contact.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_contact", "message": err.Error()})
		return contact, false
	}
	phone, err := h.contacts.ValidatePhone(contact.Phone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_contact", "message": err.Error()})
		return contact, false
	}
	contact.Phone = phone
	return contact, true
}

// parseSlotParams parses the string slot triple used by request bodies.
func parseSlotParams(c *gin.Context, packageID, date, startTime string) (models.SlotKey, bool) {
	id, err := uuid.Parse(packageID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "package_id must be a UUID"})
		return models.SlotKey{}, false
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "date must be YYYY-MM-DD"})
		return models.SlotKey{}, false
	}
	if _, err := time.Parse("15:04", startTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "start_time must be HH:MM"})
		return models.SlotKey{}, false
	}
	return models.SlotKey{PackageID: id, Date: d, StartTime: startTime}, true
}

// requireUser fetches the authenticated user or writes a 401.
func requireUser(c *gin.Context) (middleware.UserContext, bool) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Authentication required"})
		return middleware.UserContext{}, false
	}
	return userCtx, true
}
