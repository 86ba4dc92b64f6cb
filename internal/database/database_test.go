package database

import (
	"testing"

	"fritter/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrate_CreatesAllTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	for _, model := range []any{
		&models.User{}, &models.Freet{},
		&models.Follow{}, &models.Like{}, &models.Share{},
	} {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestMigrate_FollowPairIsUnique(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	require.NoError(t, db.Create(&models.Follow{FollowerID: 1, FollowedID: 2}).Error)
	assert.Error(t, db.Create(&models.Follow{FollowerID: 1, FollowedID: 2}).Error)
	// The reverse direction is a different edge.
	assert.NoError(t, db.Create(&models.Follow{FollowerID: 2, FollowedID: 1}).Error)
}

func TestGetReadDB_NilBeforeConnect(t *testing.T) {
	assert.Nil(t, GetReadDB())
}
