// Package models contains data structures for the application's domain models.
package models

import "time"

// Freet represents a short post authored by a user. AuthorID never changes
// after creation; DateModified is bumped on every content edit and drives
// feed/timeline ordering.
type Freet struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AuthorID     uint      `gorm:"not null;index" json:"author_id"`
	Author       User      `gorm:"foreignKey:AuthorID" json:"author"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	DateCreated  time.Time `gorm:"autoCreateTime" json:"date_created"`
	DateModified time.Time `gorm:"index" json:"date_modified"`
	// LikedBy holds the ids of users who liked this freet (computed at query time)
	LikedBy []uint `gorm:"-" json:"liked_by"`
	// SharedBy holds the ids of users who shared this freet (computed at query time)
	SharedBy []uint `gorm:"-" json:"shared_by"`
}
