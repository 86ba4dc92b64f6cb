package repository

import (
	"testing"
	"time"

	"fritter/internal/cache"
	"fritter/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreetRepository_CreateSetsTimestamps(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFreetRepository(db)
	alice := createTestUser(t, db, "alice")

	freet := &models.Freet{AuthorID: alice.ID, Content: "hello"}
	require.NoError(t, repo.Create(ctx(), freet))

	assert.NotZero(t, freet.ID)
	assert.False(t, freet.DateCreated.IsZero())
	assert.Equal(t, freet.DateCreated, freet.DateModified)
}

func TestFreetRepository_GetByID_ResolvesAuthorAndLikes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFreetRepository(db)
	graph := NewGraphRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	freet := createTestFreet(t, db, alice.ID, "hello")

	require.NoError(t, graph.Like(ctx(), bob.ID, freet.ID))

	got, err := repo.GetByID(ctx(), freet.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Author.Username)
	assert.Equal(t, []uint{bob.ID}, got.LikedBy)
}

func TestFreetRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFreetRepository(db)

	_, err := repo.GetByID(ctx(), 42)
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestFreetRepository_List_MostRecentlyModifiedFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFreetRepository(db)
	alice := createTestUser(t, db, "alice")

	base := time.Now().Add(-time.Hour)
	f1 := createTestFreet(t, db, alice.ID, "first")
	f2 := createTestFreet(t, db, alice.ID, "second")
	f3 := createTestFreet(t, db, alice.ID, "third")
	for i, f := range []*models.Freet{f1, f2, f3} {
		require.NoError(t, db.Model(f).
			Update("date_modified", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	freets, err := repo.List(ctx(), 50, 0)
	require.NoError(t, err)
	require.Len(t, freets, 3)
	assert.Equal(t, f3.ID, freets[0].ID)
	assert.Equal(t, f2.ID, freets[1].ID)
	assert.Equal(t, f1.ID, freets[2].ID)
}

func TestFreetRepository_List_TieBreaksByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFreetRepository(db)
	alice := createTestUser(t, db, "alice")

	same := time.Now().Truncate(time.Second)
	f1 := createTestFreet(t, db, alice.ID, "a")
	f2 := createTestFreet(t, db, alice.ID, "b")
	for _, f := range []*models.Freet{f1, f2} {
		require.NoError(t, db.Model(f).Update("date_modified", same).Error)
	}

	freets, err := repo.List(ctx(), 50, 0)
	require.NoError(t, err)
	require.Len(t, freets, 2)
	assert.Equal(t, f1.ID, freets[0].ID)
	assert.Equal(t, f2.ID, freets[1].ID)
}

func TestFreetRepository_UpdateContent_BumpsDateModified(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFreetRepository(db)
	alice := createTestUser(t, db, "alice")
	freet := createTestFreet(t, db, alice.ID, "original")

	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(freet).Update("date_modified", past).Error)

	updated, err := repo.UpdateContent(ctx(), freet.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.True(t, updated.DateModified.After(past))
	// Creation date never moves.
	assert.WithinDuration(t, freet.DateCreated, updated.DateCreated, time.Second)
}

func TestFreetRepository_UpdateContent_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFreetRepository(db)

	_, err := repo.UpdateContent(ctx(), 42, "edited")
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestFreetRepository_Delete_ScrubsLikesAndShares(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFreetRepository(db)
	graph := NewGraphRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	freet := createTestFreet(t, db, alice.ID, "hello")

	require.NoError(t, graph.Like(ctx(), bob.ID, freet.ID))
	require.NoError(t, graph.Share(ctx(), bob.ID, freet.ID))

	require.NoError(t, repo.Delete(ctx(), freet.ID))

	var likes, shares int64
	require.NoError(t, db.Unscoped().Model(&models.Like{}).
		Where("freet_id = ?", freet.ID).Count(&likes).Error)
	require.NoError(t, db.Unscoped().Model(&models.Share{}).
		Where("freet_id = ?", freet.ID).Count(&shares).Error)
	assert.Zero(t, likes)
	assert.Zero(t, shares)

	_, err := repo.GetByID(ctx(), freet.ID)
	require.Error(t, err)
}

func TestFreetRepository_GetByID_CacheInvalidatedOnLike(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFreetRepository(db)
	graph := NewGraphRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	freet := createTestFreet(t, db, alice.ID, "cache me")

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	got, err := repo.GetByID(ctx(), freet.ID)
	require.NoError(t, err)
	assert.Empty(t, got.LikedBy)
	assert.True(t, mr.Exists(cache.FreetKey(freet.ID)))

	// The like drops the cached copy, so the next read sees the new set.
	require.NoError(t, graph.Like(ctx(), bob.ID, freet.ID))
	assert.False(t, mr.Exists(cache.FreetKey(freet.ID)))

	got, err = repo.GetByID(ctx(), freet.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{bob.ID}, got.LikedBy)
}
