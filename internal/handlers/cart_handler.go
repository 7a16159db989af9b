package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/islandhop/booking-backend/internal/models"
	"github.com/islandhop/booking-backend/internal/services"
	"github.com/islandhop/booking-backend/pkg/validator"
)

// CartHandler handles the cart and checkout endpoints
type CartHandler struct {
	checkout *services.CheckoutService
	contacts *validator.ContactValidator
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(checkout *services.CheckoutService) *CartHandler {
	return &CartHandler{
		checkout: checkout,
		contacts: validator.NewContactValidator(),
	}
}

// GetCart returns the user's cart partitioned into valid and expired items
// GET /api/v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	cart, err := h.checkout.GetCart(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddItem validates, prices and stores a reservation intent
// POST /api/v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.AddIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	intent, err := h.checkout.AddIntent(userCtx.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, intent)
}

// UpdateItem replaces the party of a cart item; the whole new composition
// is re-validated
// PUT /api/v1/cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	intentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id", "message": "Cart item ID must be a UUID"})
		return
	}

	var req models.UpdateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}

	intent, err := h.checkout.UpdateIntent(userCtx.UserID, intentID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, intent)
}

// RemoveItem deletes one item from the cart
// DELETE /api/v1/cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	intentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id", "message": "Cart item ID must be a UUID"})
		return
	}

	if err := h.checkout.RemoveIntent(userCtx.UserID, intentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.checkout.ClearCart(userCtx.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Checkout commits every valid cart item independently. The response is
// 200 even when no bookings result; per-item failures are in warnings and
// all_failed marks the zero-bookings case.
// POST /api/v1/cart/checkout
func (h *CartHandler) Checkout(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}
	contact, ok := h.validContact(c, req.Contact)
	if !ok {
		return
	}

	result, err := h.checkout.CheckoutAll(c.Request.Context(), userCtx.UserID, contact)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// CheckoutItem commits a single cart item
// POST /api/v1/cart/items/:id/checkout
func (h *CartHandler) CheckoutItem(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	intentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id", "message": "Cart item ID must be a UUID"})
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}
	contact, ok := h.validContact(c, req.Contact)
	if !ok {
		return
	}

	booking, err := h.checkout.CheckoutOne(c.Request.Context(), userCtx.UserID, intentID, contact)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h *CartHandler) validContact(c *gin.Context, contact models.ContactInfo) (models.ContactInfo, bool) {
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
