package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Building represents a campus building that contains bookable rooms.
type Building struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Address   string    `gorm:"size:256" json:"address"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Rooms []Room `gorm:"foreignKey:BuildingID" json:"rooms,omitempty"`
}

func (b *Building) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
