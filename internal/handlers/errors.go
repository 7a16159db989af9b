package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/islandhop/booking-backend/internal/models"
)

// respondError translates domain errors into HTTP responses. Validation
// rejections are 400 with their machine-readable code, capacity contention
// is 409, missing resources are 404. Anything else is a 500 with the
// detail kept out of the response body.
func respondError(c *gin.Context, err error) {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"code":    ve.Code,
			"message": ve.Message,
		})
		return
	}

	var se *models.StaleIntentError
	if errors.As(err, &se) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "intent_expired",
			"message": se.Error(),
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "capacity_exceeded",
			"message": "The slot filled up before your booking completed. Please pick another time.",
		})
	case errors.Is(err, models.ErrSlotNotFound),
		errors.Is(err, models.ErrPackageNotFound),
		errors.Is(err, models.ErrIntentNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Something went wrong. Please try again.",
		})
	}
}
