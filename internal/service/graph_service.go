// Package service contains the business logic for the application.
package service

import (
	"context"

	"fritter/internal/middleware"
	"fritter/internal/models"
	"fritter/internal/repository"
)

// GraphService maintains the relationship graph: follows between users and
// likes/shares between users and freets. Each relation lives in exactly one
// row, so a successful mutation can never leave the two sides of a
// relationship disagreeing.
type GraphService struct {
	graphRepo repository.GraphRepository
	userRepo  repository.UserRepository
	freetRepo repository.FreetRepository
}

// NewGraphService returns a new GraphService.
func NewGraphService(
	graphRepo repository.GraphRepository,
	userRepo repository.UserRepository,
	freetRepo repository.FreetRepository,
) *GraphService {
	return &GraphService{
		graphRepo: graphRepo,
		userRepo:  userRepo,
		freetRepo: freetRepo,
	}
}

func observeMutation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	middleware.GraphMutations.WithLabelValues(operation, outcome).Inc()
}

// Follow makes followerID follow the user named targetUsername. The
// username is matched case-insensitively; the stored edge is keyed by IDs.
func (s *GraphService) Follow(ctx context.Context, followerID uint, targetUsername string) (err error) {
	defer func() { observeMutation("follow", err) }()

	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target == nil {
		return models.NewNotFoundError("User", targetUsername)
	}
	if target.ID == followerID {
		return models.NewSelfFollowError()
	}

	following, err := s.graphRepo.IsFollowing(ctx, followerID, target.ID)
	if err != nil {
		return err
	}
	if following {
		return models.NewAlreadyFollowingError(target.Username)
	}

	return s.graphRepo.CreateFollow(ctx, followerID, target.ID)
}

// Unfollow removes the follow edge from followerID to the named user.
func (s *GraphService) Unfollow(ctx context.Context, followerID uint, targetUsername string) (err error) {
	defer func() { observeMutation("unfollow", err) }()

	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target == nil {
		return models.NewNotFoundError("User", targetUsername)
	}

	removed, err := s.graphRepo.DeleteFollow(ctx, followerID, target.ID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFollowingError(target.Username)
	}
	return nil
}

// Like records that the user likes the freet. Liking twice has the effect
// of liking once.
func (s *GraphService) Like(ctx context.Context, userID, freetID uint) (*models.Freet, error) {
	var err error
	defer func() { observeMutation("like", err) }()

	if _, err = s.freetRepo.GetByID(ctx, freetID); err != nil {
		return nil, err
	}
	if err = s.graphRepo.Like(ctx, userID, freetID); err != nil {
		return nil, err
	}
	return s.freetRepo.GetByID(ctx, freetID)
}

// Unlike removes the user's like. Unliking a freet that was never liked is
// a no-op, not an error.
func (s *GraphService) Unlike(ctx context.Context, userID, freetID uint) (*models.Freet, error) {
	var err error
	defer func() { observeMutation("unlike", err) }()

	if _, err = s.freetRepo.GetByID(ctx, freetID); err != nil {
		return nil, err
	}
	if err = s.graphRepo.Unlike(ctx, userID, freetID); err != nil {
		return nil, err
	}
	return s.freetRepo.GetByID(ctx, freetID)
}

// Share re-shares the freet into the user's timeline. Idempotent like Like.
func (s *GraphService) Share(ctx context.Context, userID, freetID uint) (*models.Freet, error) {
	var err error
	defer func() { observeMutation("share", err) }()

	if _, err = s.freetRepo.GetByID(ctx, freetID); err != nil {
		return nil, err
	}
	if err = s.graphRepo.Share(ctx, userID, freetID); err != nil {
		return nil, err
	}
	return s.freetRepo.GetByID(ctx, freetID)
}

// Unshare removes the user's share. A no-op when the share does not exist.
func (s *GraphService) Unshare(ctx context.Context, userID, freetID uint) (*models.Freet, error) {
	var err error
	defer func() { observeMutation("unshare", err) }()

	if _, err = s.freetRepo.GetByID(ctx, freetID); err != nil {
		return nil, err
	}
	if err = s.graphRepo.Unshare(ctx, userID, freetID); err != nil {
		return nil, err
	}
	return s.freetRepo.GetByID(ctx, freetID)
}

// DeleteUserCascade removes the user, every freet it authored, and every
// relationship row that references the user or those freets.
func (s *GraphService) DeleteUserCascade(ctx context.Context, userID uint) (err error) {
	defer func() { observeMutation("delete_user_cascade", err) }()

	if _, err = s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.graphRepo.DeleteUserCascade(ctx, userID)
}
