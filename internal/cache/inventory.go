package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	FreetKeyPrefix    = "freet:%d"
	FeedKeyPrefix     = "feed:%d"
	TimelineKeyPrefix = "timeline:%d"
)

const (
	UserTTL     = 5 * time.Minute
	FreetTTL    = 30 * time.Minute
	FeedTTL     = time.Minute
	TimelineTTL = time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func FreetKey(freetID uint) string {
	return fmt.Sprintf(FreetKeyPrefix, freetID)
}

func FeedKey(userID uint) string {
	return fmt.Sprintf(FeedKeyPrefix, userID)
}

func TimelineKey(userID uint) string {
	return fmt.Sprintf(TimelineKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateFreet(ctx context.Context, freetID uint) {
	Invalidate(ctx, FreetKey(freetID))
}

// InvalidateViews drops the cached feed and timeline for a user. Callers
// invalidate the users whose views a graph mutation can change.
func InvalidateViews(ctx context.Context, userID uint) {
	Invalidate(ctx, FeedKey(userID))
	Invalidate(ctx, TimelineKey(userID))
}
