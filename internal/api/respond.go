package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BrianDuong3003/Room-Booking-System/internal/store"
)

// abortStoreError translates a store error into an HTTP response. Domain
// conditions map onto their statuses; anything unexpected is logged with the
// request path and surfaced as a generic 500 so storage details never leak.
func (h *Handler) abortStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, store.ErrConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "conflicting update"})
	case errors.Is(err, store.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not authorized"})
	case errors.Is(err, store.ErrAlreadyCancelled):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "booking is already cancelled"})
	case errors.Is(err, store.ErrPastSchedule):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "cannot book a time slot in the past"})
	case errors.Is(err, store.ErrInvalidInput):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case errors.Is(err, store.ErrEmailTaken):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "email is already registered"})
	default:
		log.Printf("unexpected store error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		body := gin.H{"error": "internal server error"}
		if h.authCfg.DevErrorDetail {
			body["detail"] = err.Error()
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, body)
	}
}
