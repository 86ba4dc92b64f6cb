// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Follow represents a directed follow edge between two users. The edge is
// stored once; both the follower's "followed" set and the target's
// "followers" set are derived from it, so the two views can never disagree.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follower_followed" json:"follower_id"`
	FollowedID uint      `gorm:"not null;index;uniqueIndex:idx_follower_followed" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followed User `gorm:"foreignKey:FollowedID" json:"followed,omitempty"`
}

// Like represents a user's like on a freet.
// The combination of UserID and FreetID must be unique.
type Like struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_like_user_freet" json:"user_id"`
	FreetID   uint           `gorm:"not null;uniqueIndex:idx_like_user_freet;index" json:"freet_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User  User  `gorm:"foreignKey:UserID" json:"user"`
	Freet Freet `gorm:"foreignKey:FreetID" json:"freet"`
}

// Share represents a user's re-share of a freet. A shared freet appears in
// the sharer's timeline without changing its authorship.
type Share struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_share_user_freet" json:"user_id"`
	FreetID   uint           `gorm:"not null;uniqueIndex:idx_share_user_freet;index" json:"freet_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User  User  `gorm:"foreignKey:UserID" json:"user"`
	Freet Freet `gorm:"foreignKey:FreetID" json:"freet"`
}
