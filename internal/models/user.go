package models

import (
	"time"
)

// User is a registered account. Users are created once and never updated.
type User struct {
	Email        string    `gorm:"type:varchar(255);primarykey" json:"email"`
	Name         string    `gorm:"not null" json:"name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
