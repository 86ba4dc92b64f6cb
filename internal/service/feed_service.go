package service

import (
	"context"

	"fritter/internal/cache"
	"fritter/internal/models"
	"fritter/internal/repository"
)

// FeedService assembles the two read-only views over the relationship
// graph: the timeline (a user's own posts and shares) and the feed (posts
// and shares from followed users plus the user's own posts). Both are pure
// reads and never mutate an entity.
type FeedService struct {
	graphRepo repository.GraphRepository
	userRepo  repository.UserRepository
}

// NewFeedService returns a new FeedService.
func NewFeedService(graphRepo repository.GraphRepository, userRepo repository.UserRepository) *FeedService {
	return &FeedService{
		graphRepo: graphRepo,
		userRepo:  userRepo,
	}
}

// Timeline returns the user's posted and shared freets in reverse
// chronological order of modification, ties broken by ascending id.
func (s *FeedService) Timeline(ctx context.Context, userID uint) ([]*models.Freet, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	var freets []*models.Freet
	err := cache.Aside(ctx, cache.TimelineKey(userID), &freets, cache.TimelineTTL, func() error {
		var fetchErr error
		freets, fetchErr = s.graphRepo.TimelineFreets(ctx, userID)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return freets, nil
}

// Feed returns freets posted or shared by every user the given user
// follows, plus the user's own posts. A freet shared by several followed
// users appears once. An empty follow set yields the user's own posts.
func (s *FeedService) Feed(ctx context.Context, userID uint) ([]*models.Freet, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	var freets []*models.Freet
	err := cache.Aside(ctx, cache.FeedKey(userID), &freets, cache.FeedTTL, func() error {
		var fetchErr error
		freets, fetchErr = s.graphRepo.FeedFreets(ctx, userID)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return freets, nil
}
