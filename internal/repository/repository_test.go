package repository

import (
	"context"
	"testing"
	"time"

	"fritter/internal/database"
	"fritter/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "hashed"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

func createTestFreet(t *testing.T, db *gorm.DB, authorID uint, content string) *models.Freet {
	t.Helper()
	now := time.Now()
	freet := &models.Freet{
		AuthorID:     authorID,
		Content:      content,
		DateCreated:  now,
		DateModified: now,
	}
	if err := db.Create(freet).Error; err != nil {
		t.Fatalf("Failed to create freet: %v", err)
	}
	return freet
}

func ctx() context.Context { return context.Background() }
