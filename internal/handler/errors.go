package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parkly/parking-platform/internal/booking"
)

// writeError maps a domain error to its HTTP status. Business-rule failures
// carry the specific reason to the client; anything unrecognized is a 500
// with a generic body.
func writeError(c *gin.Context, err error) {
	var (
		notFound       *booking.NotFoundError
		capacity       *booking.CapacityExceededError
		transition     *booking.InvalidTransitionError
		signature      *booking.MissingSignatureError
		closed         *booking.AlreadyClosedError
		reconciliation *booking.ReconciliationError
	)

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &capacity):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &signature):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &closed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &reconciliation):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, booking.ErrInvalidStayWindow),
		errors.Is(err, booking.ErrInvalidAmount),
		errors.Is(err, booking.ErrPaymentMethodRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrProtocolIncomplete),
		errors.Is(err, booking.ErrInvoiceNotDraft):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
