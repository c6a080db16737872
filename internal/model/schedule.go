package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduleStatus describes whether a time slot can still be booked.
type ScheduleStatus string

const (
	ScheduleAvailable ScheduleStatus = "AVAILABLE"
	ScheduleReserved  ScheduleStatus = "RESERVED"
)

// RoomSchedule is one reservable time window for one room. It is the unit of
// booking exclusivity: at most one active booking may reference it at a time.
// Its status is maintained by the booking coordinator, not set freely.
type RoomSchedule struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	RoomID    string         `gorm:"index;size:36;not null" json:"roomId"`
	StartTime time.Time      `gorm:"index;not null" json:"startTime"`
	EndTime   time.Time      `gorm:"not null" json:"endTime"`
	Status    ScheduleStatus `gorm:"size:16;not null;default:AVAILABLE" json:"status"`
	CreatedAt time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null" json:"updatedAt"`

	// Associations
	Room Room `gorm:"constraint:OnDelete:CASCADE" json:"room,omitempty"`
}

func (s *RoomSchedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
