package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BrianDuong3003/Room-Booking-System/internal/model"
	"github.com/BrianDuong3003/Room-Booking-System/internal/store"
)

type createBuildingRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// CreateBuilding adds a campus building. Admin only.
func (h *Handler) CreateBuilding(c *gin.Context) {
	var req createBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	building := model.Building{Name: req.Name, Address: req.Address}
	if err := h.store.CreateBuilding(c.Request.Context(), &building); err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"building": building})
}

// GetBuildings lists all buildings.
func (h *Handler) GetBuildings(c *gin.Context) {
	buildings, err := h.store.ListBuildings(c.Request.Context())
	if err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"buildings": buildings})
}

type createRoomRequest struct {
	Name       string           `json:"name" binding:"required"`
	Capacity   int              `json:"capacity" binding:"required,gt=0"`
	Floor      int              `json:"floor"`
	BuildingID string           `json:"buildingId" binding:"required"`
	Status     model.RoomStatus `json:"status"`
}

// CreateRoom adds a room to a building. Admin only.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status == "" {
		req.Status = model.RoomAvailable
	}
	room := model.Room{
		Name:       req.Name,
		Capacity:   req.Capacity,
		Floor:      req.Floor,
		BuildingID: req.BuildingID,
		Status:     req.Status,
	}
	if err := h.store.CreateRoom(c.Request.Context(), &room); err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "room created successfully", "room": room})
}

// GetRooms lists rooms with pagination and sorting.
func (h *Handler) GetRooms(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	opts := store.ListRoomsOptions{
		Page:      page,
		Limit:     limit,
		SortBy:    c.DefaultQuery("sortBy", "name"),
		SortOrder: c.DefaultQuery("sortOrder", "asc"),
	}
	rooms, total, err := h.store.ListRooms(c.Request.Context(), opts)
	if err != nil {
		h.abortStoreError(c, err)
		return
	}

	totalPages := total / int64(opts.Limit)
	if total%int64(opts.Limit) != 0 {
		totalPages++
	}
	c.JSON(http.StatusOK, gin.H{
		"rooms": rooms,
		"pagination": gin.H{
			"total":      total,
			"page":       opts.Page,
			"limit":      opts.Limit,
			"totalPages": totalPages,
		},
	})
}

// SearchRooms finds rooms whose name contains the search term.
func (h *Handler) SearchRooms(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search term is required"})
		return
	}

	rooms, err := h.store.SearchRooms(c.Request.Context(), term)
	if err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetRoomByID returns one room with its building.
func (h *Handler) GetRoomByID(c *gin.Context) {
	room, err := h.store.GetRoomByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

type updateRoomRequest struct {
	Name       *string           `json:"name"`
	Capacity   *int              `json:"capacity"`
	Floor      *int              `json:"floor"`
	BuildingID *string           `json:"buildingId"`
	Status     *model.RoomStatus `json:"status"`
}

// UpdateRoom changes the provided fields of a room. Admin only.
func (h *Handler) UpdateRoom(c *gin.Context) {
	var req updateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.store.UpdateRoom(c.Request.Context(), c.Param("id"), store.RoomUpdates{
		Name:       req.Name,
		Capacity:   req.Capacity,
		Floor:      req.Floor,
		BuildingID: req.BuildingID,
		Status:     req.Status,
	})
	if err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "room updated successfully", "room": room})
}

// DeleteRoom removes a room. Admin only.
func (h *Handler) DeleteRoom(c *gin.Context) {
	if err := h.store.DeleteRoom(c.Request.Context(), c.Param("id")); err != nil {
		h.abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "room deleted successfully"})
}
