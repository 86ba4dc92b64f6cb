package service

import (
	"testing"
	"time"

	"fritter/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freetIDs(freets []*models.Freet) []uint {
	ids := make([]uint, 0, len(freets))
	for _, f := range freets {
		ids = append(ids, f.ID)
	}
	return ids
}

func TestFeedService_TimelineContainsOwnAndShared(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	own := env.freet(t, alice.ID, "mine")
	borrowed := env.freet(t, bob.ID, "bob's")
	_, err := env.graph.Share(ctx(), alice.ID, borrowed.ID)
	require.NoError(t, err)

	freets, err := env.feeds.Timeline(ctx(), alice.ID)
	require.NoError(t, err)

	ids := freetIDs(freets)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, own.ID)
	assert.Contains(t, ids, borrowed.ID)
}

func TestFeedService_TimelineOrdering(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")

	base := time.Now().Add(-time.Hour)
	f1 := env.freet(t, alice.ID, "t1")
	f2 := env.freet(t, alice.ID, "t2")
	f3 := env.freet(t, alice.ID, "t3")
	for i, f := range []*models.Freet{f1, f2, f3} {
		require.NoError(t, env.db.Model(f).
			Update("date_modified", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	freets, err := env.feeds.Timeline(ctx(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{f3.ID, f2.ID, f1.ID}, freetIDs(freets))
}

func TestFeedService_EditResurfacesFreet(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")

	base := time.Now().Add(-time.Hour)
	f1 := env.freet(t, alice.ID, "older")
	f2 := env.freet(t, alice.ID, "newer")
	require.NoError(t, env.db.Model(f1).Update("date_modified", base).Error)
	require.NoError(t, env.db.Model(f2).Update("date_modified", base.Add(time.Minute)).Error)

	_, err := env.posts.UpdateFreet(ctx(), UpdateFreetInput{
		UserID:  alice.ID,
		FreetID: f1.ID,
		Content: "older, edited",
	})
	require.NoError(t, err)

	freets, err := env.feeds.Timeline(ctx(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{f1.ID, f2.ID}, freetIDs(freets))
}

func TestFeedService_FeedDeduplicatesAcrossPaths(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")

	popular := env.freet(t, bob.ID, "popular")

	// The freet reaches alice through bob (author) and carol (sharer);
	// it must appear in her feed exactly once.
	require.NoError(t, env.graph.Follow(ctx(), alice.ID, "bob"))
	require.NoError(t, env.graph.Follow(ctx(), alice.ID, "carol"))
	_, err := env.graph.Share(ctx(), carol.ID, popular.ID)
	require.NoError(t, err)

	freets, err := env.feeds.Feed(ctx(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{popular.ID}, freetIDs(freets))
}

func TestFeedService_FeedWithNoFollowsIsOwnPosts(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	own := env.freet(t, alice.ID, "mine")
	env.freet(t, bob.ID, "not followed")

	freets, err := env.feeds.Feed(ctx(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{own.ID}, freetIDs(freets))
}

func TestFeedService_FeedExcludesUnfollowedAuthors(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")

	bobs := env.freet(t, bob.ID, "followed")
	env.freet(t, carol.ID, "unfollowed")

	require.NoError(t, env.graph.Follow(ctx(), alice.ID, "bob"))

	freets, err := env.feeds.Feed(ctx(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{bobs.ID}, freetIDs(freets))
}

func TestFeedService_ShareReachesFollowersOfSharer(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")
	freet := env.freet(t, alice.ID, "from alice")

	// carol follows only bob, so alice's freet can reach her only through
	// bob's share.
	require.NoError(t, env.graph.Follow(ctx(), carol.ID, "bob"))
	_, err := env.graph.Share(ctx(), bob.ID, freet.ID)
	require.NoError(t, err)

	feed, err := env.feeds.Feed(ctx(), carol.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{freet.ID}, freetIDs(feed))
}

func TestFeedService_ViewsCarryLikeAndShareSets(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	freet := env.freet(t, alice.ID, "likable")

	require.NoError(t, env.graph.Follow(ctx(), bob.ID, "alice"))
	_, err := env.graph.Like(ctx(), bob.ID, freet.ID)
	require.NoError(t, err)
	_, err = env.graph.Share(ctx(), bob.ID, freet.ID)
	require.NoError(t, err)

	timeline, err := env.feeds.Timeline(ctx(), alice.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.Equal(t, []uint{bob.ID}, timeline[0].LikedBy)
	assert.Equal(t, []uint{bob.ID}, timeline[0].SharedBy)

	feed, err := env.feeds.Feed(ctx(), bob.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, []uint{bob.ID}, feed[0].LikedBy)
}

func TestFeedService_UnknownUser(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.feeds.Feed(ctx(), 999)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, errCode(t, err))

	_, err = env.feeds.Timeline(ctx(), 999)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, errCode(t, err))
}
