package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/islandhop/booking-backend/internal/models"
	"github.com/islandhop/booking-backend/internal/services"
)

// SlotHandler handles the operator slot management endpoints
type SlotHandler struct {
	availability *services.AvailabilityService
}

// NewSlotHandler creates a new SlotHandler
func NewSlotHandler(availability *services.AvailabilityService) *SlotHandler {
	return &SlotHandler{availability: availability}
}

// CreateSlot opens a date/time for a package
// POST /api/v1/admin/slots
func (h *SlotHandler) CreateSlot(c *gin.Context) {
	var req models.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	slot, err := h.availability.CreateSlot(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// SetAvailability toggles the operator override on a slot
// PUT /api/v1/admin/slots/availability
func (h *SlotHandler) SetAvailability(c *gin.Context) {
	var req models.SetSlotAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	if err := h.availability.SetAvailability(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SetMinimum raises or lowers a slot's headcount floor
// PUT /api/v1/admin/slots/minimum
func (h *SlotHandler) SetMinimum(c *gin.Context) {
	var req models.SetSlotMinimumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	if err := h.availability.SetCurrentMinimum(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
