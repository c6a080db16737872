package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomStatus describes the administrative state of a room.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "AVAILABLE"
	RoomMaintenance RoomStatus = "MAINTENANCE"
	RoomOccupied    RoomStatus = "OCCUPIED"
)

// Room represents a single bookable room inside a building. Its lifecycle is
// managed by administrators and is independent from bookings.
type Room struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	Name       string     `gorm:"index;size:128;not null" json:"name"`
	Capacity   int        `gorm:"not null" json:"capacity"`
	Floor      int        `json:"floor"`
	BuildingID string     `gorm:"index;size:36;not null" json:"buildingId"`
	Status     RoomStatus `gorm:"size:16;not null;default:AVAILABLE" json:"status"`
	CreatedAt  time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updatedAt"`

	// Associations
	Building Building `gorm:"constraint:OnDelete:CASCADE" json:"building,omitempty"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
