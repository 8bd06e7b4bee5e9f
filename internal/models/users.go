package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleOrdinary   = "ordinary"
	RolePrivileged = "privileged"
)

type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	FirstName string    `gorm:"not null" json:"first_name"`
	LastName  string    `gorm:"not null" json:"last_name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	Role      string    `gorm:"default:'ordinary';not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// IsPrivileged reports whether the user may perform administrative operations.
func (user *User) IsPrivileged() bool {
	return user.Role == RolePrivileged
}

func (User) TableName() string {
	return "users"
}
