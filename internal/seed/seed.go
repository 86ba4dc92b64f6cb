// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"fritter/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumFreets   int
	ShouldClean bool
}

// defaultPassword is the password every seeded account gets so developers
// can log in as any demo user.
const defaultPassword = "password123"

// Seed populates the database with demo users, freets, and relationship records.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d freets...", opts.NumUsers, opts.NumFreets)
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d demo users created", len(users))

	freets, err := createFreets(db, users, opts.NumFreets)
	if err != nil {
		return fmt.Errorf("failed to create freets: %w", err)
	}
	log.Printf("%d demo freets created", len(freets))

	if err := createGraph(db, users, freets); err != nil {
		return fmt.Errorf("failed to create relationship records: %w", err)
	}

	log.Println("Database seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	// Relationship records first so no dangling references survive a reseed.
	for _, model := range []any{
		&models.Like{}, &models.Share{}, &models.Follow{},
		&models.Freet{}, &models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, count int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(10, 99)),
			Password: string(hashed),
		}
		if err := db.Create(user).Error; err != nil {
			// Username collision from the generator; skip and keep going.
			log.Printf("Warning: skipping user %q: %v", user.Username, err)
			continue
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users created")
	}
	return users, nil
}

func createFreets(db *gorm.DB, users []*models.User, count int) ([]*models.Freet, error) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	freets := make([]*models.Freet, 0, count)
	for i := 0; i < count; i++ {
		content := gofakeit.Sentence(r.Intn(10) + 3)
		if len(content) > 140 {
			content = content[:140]
		}

		// Spread timestamps over the past two weeks so ordered views look real.
		created := time.Now().Add(-time.Duration(r.Intn(14*24)) * time.Hour)
		freet := &models.Freet{
			AuthorID:     users[r.Intn(len(users))].ID,
			Content:      content,
			DateCreated:  created,
			DateModified: created,
		}
		if err := db.Create(freet).Error; err != nil {
			return nil, err
		}
		freets = append(freets, freet)
	}
	return freets, nil
}

// createGraph wires a plausible mesh of follows, likes, and shares. Each
// record is stored once; duplicate picks are dropped by the unique indexes.
func createGraph(db *gorm.DB, users []*models.User, freets []*models.Freet) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	follows := 0
	for _, u := range users {
		for i := 0; i < r.Intn(len(users)); i++ {
			target := users[r.Intn(len(users))]
			if target.ID == u.ID {
				continue
			}
			res := db.Where(models.Follow{FollowerID: u.ID, FollowedID: target.ID}).
				FirstOrCreate(&models.Follow{FollowerID: u.ID, FollowedID: target.ID})
			if res.Error != nil {
				return res.Error
			}
			follows++
		}
	}
	log.Printf("%d follow records created", follows)

	if len(freets) == 0 {
		return nil
	}

	likes, shares := 0, 0
	for _, u := range users {
		for i := 0; i < r.Intn(8); i++ {
			f := freets[r.Intn(len(freets))]
			res := db.Where(models.Like{UserID: u.ID, FreetID: f.ID}).
				FirstOrCreate(&models.Like{UserID: u.ID, FreetID: f.ID})
			if res.Error != nil {
				return res.Error
			}
			likes++
		}
		for i := 0; i < r.Intn(3); i++ {
			f := freets[r.Intn(len(freets))]
			if f.AuthorID == u.ID {
				continue
			}
			res := db.Where(models.Share{UserID: u.ID, FreetID: f.ID}).
				FirstOrCreate(&models.Share{UserID: u.ID, FreetID: f.ID})
			if res.Error != nil {
				return res.Error
			}
			shares++
		}
	}
	log.Printf("%d like and %d share records created", likes, shares)
	return nil
}
