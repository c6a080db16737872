package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BrianDuong3003/Room-Booking-System/internal/model"
	"github.com/BrianDuong3003/Room-Booking-System/internal/mw"
)

type createBookingRequest struct {
	RoomScheduleID string `json:"roomScheduleId" binding:"required"`
	Purpose        string `json:"purpose"`
}

// CreateBooking reserves a schedule for the authenticated caller.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.store.CreateBooking(c.Request.Context(), req.RoomScheduleID, c.GetString(mw.CtxUserID), req.Purpose)
	if err != nil {
		h.abortStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// CancelBooking cancels a booking owned by the authenticated caller. When the
// cancellation returns the slot to AVAILABLE, watchers of the room are
// notified.
func (h *Handler) CancelBooking(c *gin.Context) {
	result, err := h.store.CancelBooking(c.Request.Context(), c.Param("id"), c.GetString(mw.CtxUserID))
	if err != nil {
		h.abortStoreError(c, err)
		return
	}

	if result.FreedRoomID != "" && h.notifier != nil {
		h.notifier.Dispatch(result.FreedRoomID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "booking cancelled successfully",
		"booking": result.Booking,
	})
}

// GetMyBookings returns the caller's bookings, optionally narrowed by status.
func (h *Handler) GetMyBookings(c *gin.Context) {
	status := model.BookingStatus(c.Query("status"))
	bookings, err := h.store.ListBookingsByUser(c.Request.Context(), c.GetString(mw.CtxUserID), status)
	if err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetAllBookings returns every booking. Admin only.
func (h *Handler) GetAllBookings(c *gin.Context) {
	bookings, err := h.store.ListAllBookings(c.Request.Context())
	if err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBookingsByDate returns bookings whose schedule starts on the given day.
// Admin only.
func (h *Handler) GetBookingsByDate(c *gin.Context) {
	day, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}

	bookings, err := h.store.ListBookingsByDate(c.Request.Context(), day)
	if err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBookingsByUser returns one user's bookings. Admin only.
func (h *Handler) GetBookingsByUser(c *gin.Context) {
	bookings, err := h.store.ListBookingsByUser(c.Request.Context(), c.Param("userId"), "")
	if err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBookingsByRoomName returns a room's bookings within a date range, both
// bounds defaulting to today.
func (h *Handler) GetBookingsByRoomName(c *gin.Context) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)

	if s := c.Query("startDate"); s != "" {
		day, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date format"})
			return
		}
		start = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
	}
	if e := c.Query("endDate"); e != "" {
		day, err := time.Parse("2006-01-02", e)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date format"})
			return
		}
		end = time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	}

	bookings, err := h.store.ListBookingsByRoomName(c.Request.Context(), c.Param("roomName"), start, end)
	if err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}
