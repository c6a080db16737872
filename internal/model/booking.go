package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingStatus describes the state of a booking. COMPLETED means
// "active/confirmed" in this system, matching the behavior the campus
// deployment has always had; see the design notes before changing it.
type BookingStatus string

const (
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Booking is a user's claim on one RoomSchedule. Version is the optimistic
// concurrency counter: cancellation writes are guarded by a compare-and-swap
// on the version read inside the same transaction.
type Booking struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	RoomScheduleID string        `gorm:"index;size:36;not null" json:"roomScheduleId"`
	UserID         string        `gorm:"index;size:36;not null" json:"userId"`
	Purpose        string        `gorm:"size:512" json:"purpose"`
	Status         BookingStatus `gorm:"size:16;not null;default:COMPLETED" json:"status"`
	Version        int           `gorm:"not null;default:0" json:"version"`
	CreatedAt      time.Time     `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time     `gorm:"not null" json:"updatedAt"`

	// Associations
	RoomSchedule RoomSchedule `gorm:"constraint:OnDelete:CASCADE" json:"roomSchedule,omitempty"`
	User         User         `json:"user,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
