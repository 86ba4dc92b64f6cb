package service

import (
	"context"
	"testing"
	"time"

	"fritter/internal/database"
	"fritter/internal/models"
	"fritter/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv wires the services over an in-memory database, the same way the
// server bootstraps them.
type testEnv struct {
	db    *gorm.DB
	users *UserService
	graph *GraphService
	feeds *FeedService
	posts *FreetService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	freetRepo := repository.NewFreetRepository(db)
	graphRepo := repository.NewGraphRepository(db)

	return &testEnv{
		db:    db,
		users: NewUserService(userRepo, graphRepo),
		graph: NewGraphService(graphRepo, userRepo, freetRepo),
		feeds: NewFeedService(graphRepo, userRepo),
		posts: NewFreetService(freetRepo, userRepo),
	}
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "hashed"}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func (e *testEnv) freet(t *testing.T, authorID uint, content string) *models.Freet {
	t.Helper()
	now := time.Now()
	freet := &models.Freet{
		AuthorID:     authorID,
		Content:      content,
		DateCreated:  now,
		DateModified: now,
	}
	if err := e.db.Create(freet).Error; err != nil {
		t.Fatalf("create freet: %v", err)
	}
	return freet
}

func ctx() context.Context { return context.Background() }

func errCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := err.(*models.AppError)
	if !ok {
		t.Fatalf("expected *models.AppError, got %T: %v", err, err)
	}
	return appErr.Code
}
