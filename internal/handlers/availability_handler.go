package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/islandhop/booking-backend/internal/models"
	"github.com/islandhop/booking-backend/internal/services"
)

// AvailabilityHandler serves the public browse endpoints: package details
// and slot availability snapshots.
type AvailabilityHandler struct {
	availability *services.AvailabilityService
	packages     services.PackageStore
}

// NewAvailabilityHandler creates a new AvailabilityHandler
func NewAvailabilityHandler(availability *services.AvailabilityService, packages services.PackageStore) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability, packages: packages}
}

// GetPackage returns one package from the catalog
// GET /api/v1/packages/:id
func (h *AvailabilityHandler) GetPackage(c *gin.Context) {
	packageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id", "message": "Package ID must be a UUID"})
		return
	}

	pkg, err := h.packages.GetByID(packageID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

// ListPackages returns packages of a given type
// GET /api/v1/packages?type=tour
func (h *AvailabilityHandler) ListPackages(c *gin.Context) {
	packageType := models.PackageType(c.DefaultQuery("type", string(models.PackageTypeTour)))
	switch packageType {
	case models.PackageTypeTour, models.PackageTypeTransfer, models.PackageTypeTicket:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_type",
			"message": "type must be one of: tour, transfer, ticket",
		})
		return
	}

	packages, err := h.packages.ListByType(packageType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": packages, "count": len(packages)})
}

// GetAvailability returns the slot snapshots for a package on a date. The
// response is advisory; seats are only guaranteed by a committed booking.
// GET /api/v1/packages/:id/availability?date=2026-09-20
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	packageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id", "message": "Package ID must be a UUID"})
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_date",
			"message": "date query parameter is required in YYYY-MM-DD format",
		})
		return
	}

	slots, err := h.availability.GetAvailability(c.Request.Context(), packageID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"package_id": packageID,
		"date":       date.Format("2006-01-02"),
		"slots":      slots,
	})
}
