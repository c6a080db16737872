package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole distinguishes regular users from administrators.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// User is a registered account. The password column holds a bcrypt hash and
// is never serialized to API responses.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:256;not null" json:"email"`
	Password  string    `gorm:"size:128;not null" json:"-"`
	Role      UserRole  `gorm:"size:16;not null;default:USER" json:"role"`
	FirstName string    `gorm:"size:128" json:"firstName"`
	LastName  string    `gorm:"size:128" json:"lastName"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
