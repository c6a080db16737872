package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type createScheduleRequest struct {
	RoomID    string    `json:"roomId" binding:"required"`
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
}

// CreateSchedule adds a reservable time window for a room. Admin only.
func (h *Handler) CreateSchedule(c *gin.Context) {
	var req createScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.EndTime.After(req.StartTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end time must be after start time"})
		return
	}

	schedule, err := h.store.CreateSchedule(c.Request.Context(), req.RoomID, req.StartTime, req.EndTime)
	if err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"schedule": schedule})
}

// GetScheduleByID returns one schedule with its room and building.
func (h *Handler) GetScheduleByID(c *gin.Context) {
	schedule, err := h.store.GetScheduleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

// GetSchedulesInRange lists schedules fully inside [startTime, endTime].
func (h *Handler) GetSchedulesInRange(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("startTime"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startTime, use RFC3339"})
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("endTime"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endTime, use RFC3339"})
		return
	}
	if !end.After(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end time must be after start time"})
		return
	}

	schedules, err := h.store.ListSchedulesInRange(c.Request.Context(), start, end)
	if err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

// GetSchedulesByRoomName lists a room's schedules within a date range.
func (h *Handler) GetSchedulesByRoomName(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate, use YYYY-MM-DD"})
		return
	}
	endDay, err := time.Parse("2006-01-02", c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate, use YYYY-MM-DD"})
		return
	}
	end := endDay.Add(24*time.Hour - time.Nanosecond)

	schedules, err := h.store.ListSchedulesByRoomName(c.Request.Context(), c.Param("roomName"), start, end)
	if err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

type updateScheduleRequest struct {
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
}

// UpdateSchedule moves a schedule's time window. Admin only.
func (h *Handler) UpdateSchedule(c *gin.Context) {
	var req updateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule, err := h.store.UpdateScheduleTimes(c.Request.Context(), c.Param("id"), req.StartTime, req.EndTime)
	if err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

// DeleteSchedule removes a schedule. Admin only.
func (h *Handler) DeleteSchedule(c *gin.Context) {
	if err := h.store.DeleteSchedule(c.Request.Context(), c.Param("id")); err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "schedule deleted successfully"})
}
