// Package repository implements the data access layer for the application.
package repository

import (
	"context"

	"fritter/internal/cache"
	"fritter/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GraphRepository stores the relationship graph. Every relation is a single
// join row keyed by immutable IDs; both sides of a relation are derived from
// that row at read time, so the two views can never drift apart.
type GraphRepository interface {
	// Follow graph
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	CreateFollow(ctx context.Context, followerID, followedID uint) error
	DeleteFollow(ctx context.Context, followerID, followedID uint) (bool, error)
	Following(ctx context.Context, userID uint) ([]models.User, error)
	Followers(ctx context.Context, userID uint) ([]models.User, error)

	// Like and share graphs (idempotent add/remove)
	Like(ctx context.Context, userID, freetID uint) error
	Unlike(ctx context.Context, userID, freetID uint) error
	Share(ctx context.Context, userID, freetID uint) error
	Unshare(ctx context.Context, userID, freetID uint) error
	IsLiked(ctx context.Context, userID, freetID uint) (bool, error)
	LikedFreetIDs(ctx context.Context, userID uint) ([]uint, error)
	SharedFreetIDs(ctx context.Context, userID uint) ([]uint, error)
	PostedFreetIDs(ctx context.Context, userID uint) ([]uint, error)

	// Feed traversal
	TimelineFreets(ctx context.Context, userID uint) ([]*models.Freet, error)
	FeedFreets(ctx context.Context, userID uint) ([]*models.Freet, error)

	// Cascade
	DeleteUserCascade(ctx context.Context, userID uint) error
}

type graphRepository struct {
	db *gorm.DB
}

// NewGraphRepository creates a new graph repository
func NewGraphRepository(db *gorm.DB) GraphRepository {
	return &graphRepository{db: db}
}

func (r *graphRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *graphRepository) CreateFollow(ctx context.Context, followerID, followedID uint) error {
	follow := &models.Follow{FollowerID: followerID, FollowedID: followedID}
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateViews(ctx, followerID)
	return nil
}

// DeleteFollow removes the follow edge and reports whether it existed.
func (r *graphRepository) DeleteFollow(ctx context.Context, followerID, followedID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	cache.InvalidateViews(ctx, followerID)
	return res.RowsAffected > 0, nil
}

func (r *graphRepository) Following(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := readDB(r.db).WithContext(ctx).
		Table("users").
		Joins("JOIN follows f ON users.id = f.followed_id").
		Where("f.follower_id = ? AND users.deleted_at IS NULL", userID).
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *graphRepository) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := readDB(r.db).WithContext(ctx).
		Table("users").
		Joins("JOIN follows f ON users.id = f.follower_id").
		Where("f.followed_id = ? AND users.deleted_at IS NULL", userID).
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *graphRepository) Like(ctx context.Context, userID, freetID uint) error {
	// ON CONFLICT DO NOTHING keeps the add idempotent under races.
	like := &models.Like{UserID: userID, FreetID: freetID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "freet_id"}},
			DoNothing: true,
		}).
		Create(like).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFreet(ctx, freetID)
	cache.InvalidateViews(ctx, userID)
	return nil
}

func (r *graphRepository) Unlike(ctx context.Context, userID, freetID uint) error {
	// Hard delete so a later re-like is not blocked by a soft-deleted row.
	if err := r.db.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND freet_id = ?", userID, freetID).
		Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFreet(ctx, freetID)
	cache.InvalidateViews(ctx, userID)
	return nil
}

func (r *graphRepository) Share(ctx context.Context, userID, freetID uint) error {
	share := &models.Share{UserID: userID, FreetID: freetID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "freet_id"}},
			DoNothing: true,
		}).
		Create(share).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFreet(ctx, freetID)
	cache.InvalidateViews(ctx, userID)
	return nil
}

func (r *graphRepository) Unshare(ctx context.Context, userID, freetID uint) error {
	if err := r.db.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND freet_id = ?", userID, freetID).
		Delete(&models.Share{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFreet(ctx, freetID)
	cache.InvalidateViews(ctx, userID)
	return nil
}

func (r *graphRepository) IsLiked(ctx context.Context, userID, freetID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND freet_id = ?", userID, freetID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *graphRepository) LikedFreetIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ?", userID).
		Order("freet_id ASC").
		Pluck("freet_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *graphRepository) SharedFreetIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Share{}).
		Where("user_id = ?", userID).
		Order("freet_id ASC").
		Pluck("freet_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *graphRepository) PostedFreetIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Freet{}).
		Where("author_id = ?", userID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// TimelineFreets returns the user's own posted and shared freets, newest
// modification first, ties broken by ascending id. Each freet appears once
// even when it is both posted and shared by the user; dangling share rows
// resolve to nothing because the query runs against the live freets table.
func (r *graphRepository) TimelineFreets(ctx context.Context, userID uint) ([]*models.Freet, error) {
	db := readDB(r.db).WithContext(ctx)

	ownShares := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Share{}).
		Select("freet_id").
		Where("user_id = ?", userID)

	var freets []*models.Freet
	if err := db.
		Preload("Author").
		Where("author_id = ? OR id IN (?)", userID, ownShares).
		Order("date_modified DESC, id ASC").
		Find(&freets).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := attachGraphSets(ctx, readDB(r.db), freets); err != nil {
		return nil, err
	}
	return freets, nil
}

// FeedFreets returns freets posted or shared by users the given user
// follows, plus the user's own posts. The single-table predicate keeps
// every freet unique in the result regardless of how many followed users
// shared it.
func (r *graphRepository) FeedFreets(ctx context.Context, userID uint) ([]*models.Freet, error) {
	db := readDB(r.db).WithContext(ctx)

	followed := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", userID)

	followedShares := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Share{}).
		Select("freet_id").
		Where("user_id IN (?)", followed)

	var freets []*models.Freet
	if err := db.
		Preload("Author").
		Where("author_id IN (?) OR id IN (?) OR author_id = ?", followed, followedShares, userID).
		Order("date_modified DESC, id ASC").
		Find(&freets).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := attachGraphSets(ctx, readDB(r.db), freets); err != nil {
		return nil, err
	}
	return freets, nil
}

// DeleteUserCascade removes the user together with everything that
// references it: authored freets, all likes/shares on those freets, the
// user's own likes/shares, and both directions of the follow graph. The
// whole fan-out runs in one transaction so a failure leaves no partial
// state behind.
func (r *graphRepository) DeleteUserCascade(ctx context.Context, userID uint) error {
	var freetIDs []uint

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Freet{}).
			Where("author_id = ?", userID).
			Pluck("id", &freetIDs).Error; err != nil {
			return err
		}

		if len(freetIDs) > 0 {
			if err := tx.Unscoped().Where("freet_id IN ?", freetIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("freet_id IN ?", freetIDs).Delete(&models.Share{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("author_id = ?", userID).Delete(&models.Freet{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Share{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", userID, userID).Delete(&models.Follow{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&models.User{}, userID).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	cache.InvalidateUser(ctx, userID)
	cache.InvalidateViews(ctx, userID)
	for _, id := range freetIDs {
		cache.InvalidateFreet(ctx, id)
	}
	return nil
}
