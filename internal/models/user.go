// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the Fritter application.
// Relationship sets (followed, followers, liked, shared) are not stored on
// the user row; they are derived from the follows/likes/shares tables.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Password  string         `gorm:"not null" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Freets    []Freet        `gorm:"foreignKey:AuthorID" json:"freets,omitempty"`
}
