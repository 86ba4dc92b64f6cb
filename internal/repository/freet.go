// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"fritter/internal/cache"
	"fritter/internal/models"

	"gorm.io/gorm"
)

// FreetRepository defines persistence operations for freets.
type FreetRepository interface {
	Create(ctx context.Context, freet *models.Freet) error
	GetByID(ctx context.Context, id uint) (*models.Freet, error)
	GetByAuthorID(ctx context.Context, authorID uint, limit, offset int) ([]*models.Freet, error)
	List(ctx context.Context, limit, offset int) ([]*models.Freet, error)
	UpdateContent(ctx context.Context, id uint, content string) (*models.Freet, error)
	Delete(ctx context.Context, id uint) error
}

type freetRepository struct {
	db *gorm.DB
}

// NewFreetRepository creates a new freet repository
func NewFreetRepository(db *gorm.DB) FreetRepository {
	return &freetRepository{db: db}
}

func (r *freetRepository) Create(ctx context.Context, freet *models.Freet) error {
	now := time.Now()
	freet.DateCreated = now
	freet.DateModified = now
	if err := r.db.WithContext(ctx).Create(freet).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *freetRepository) GetByID(ctx context.Context, id uint) (*models.Freet, error) {
	var freet models.Freet
	err := cache.Aside(ctx, cache.FreetKey(id), &freet, cache.FreetTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).
			Preload("Author").
			First(&freet, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Freet", id)
			}
			return models.NewInternalError(err)
		}
		return attachGraphSets(ctx, readDB(r.db), []*models.Freet{&freet})
	})
	if err != nil {
		return nil, err
	}
	return &freet, nil
}

func (r *freetRepository) GetByAuthorID(ctx context.Context, authorID uint, limit, offset int) ([]*models.Freet, error) {
	var freets []*models.Freet
	if err := readDB(r.db).WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("date_modified DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&freets).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := attachGraphSets(ctx, readDB(r.db), freets); err != nil {
		return nil, err
	}
	return freets, nil
}

func (r *freetRepository) List(ctx context.Context, limit, offset int) ([]*models.Freet, error) {
	var freets []*models.Freet
	if err := readDB(r.db).WithContext(ctx).
		Preload("Author").
		Order("date_modified DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&freets).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := attachGraphSets(ctx, readDB(r.db), freets); err != nil {
		return nil, err
	}
	return freets, nil
}

// attachGraphSets fills the computed LikedBy/SharedBy sets for a batch of
// freets with two grouped queries instead of one pair per freet. Every read
// path that returns full freet records goes through it, feed and timeline
// traversals included.
func attachGraphSets(ctx context.Context, db *gorm.DB, freets []*models.Freet) error {
	if len(freets) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(freets))
	for _, f := range freets {
		ids = append(ids, f.ID)
	}

	var likes []models.Like
	if err := db.WithContext(ctx).
		Where("freet_id IN ?", ids).
		Order("user_id ASC").
		Find(&likes).Error; err != nil {
		return models.NewInternalError(err)
	}
	var shares []models.Share
	if err := db.WithContext(ctx).
		Where("freet_id IN ?", ids).
		Order("user_id ASC").
		Find(&shares).Error; err != nil {
		return models.NewInternalError(err)
	}

	likedBy := make(map[uint][]uint, len(freets))
	for _, l := range likes {
		likedBy[l.FreetID] = append(likedBy[l.FreetID], l.UserID)
	}
	sharedBy := make(map[uint][]uint, len(freets))
	for _, s := range shares {
		sharedBy[s.FreetID] = append(sharedBy[s.FreetID], s.UserID)
	}

	for _, f := range freets {
		f.LikedBy = likedBy[f.ID]
		f.SharedBy = sharedBy[f.ID]
	}
	return nil
}

func (r *freetRepository) UpdateContent(ctx context.Context, id uint, content string) (*models.Freet, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Freet{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":       content,
			"date_modified": time.Now(),
		})
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Freet", id)
	}
	cache.InvalidateFreet(ctx, id)
	return r.GetByID(ctx, id)
}

func (r *freetRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Scrub likes and shares first so no relationship row outlives the freet.
		if err := tx.Unscoped().Where("freet_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("freet_id = ?", id).Delete(&models.Share{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Freet{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFreet(ctx, id)
	return nil
}
