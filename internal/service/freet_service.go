package service

import (
	"context"
	"strings"

	"fritter/internal/models"
	"fritter/internal/repository"
)

// FreetService provides authoring operations on freets. Relationship
// mutations (likes, shares) belong to GraphService.
type FreetService struct {
	freetRepo repository.FreetRepository
	userRepo  repository.UserRepository
}

// CreateFreetInput carries the fields needed to publish a freet.
type CreateFreetInput struct {
	AuthorID uint
	Content  string
}

// UpdateFreetInput carries a content edit. Only the author may edit.
type UpdateFreetInput struct {
	UserID  uint
	FreetID uint
	Content string
}

// NewFreetService returns a new FreetService.
func NewFreetService(freetRepo repository.FreetRepository, userRepo repository.UserRepository) *FreetService {
	return &FreetService{freetRepo: freetRepo, userRepo: userRepo}
}

const maxContentLen = 140

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return models.NewValidationError("Content too long (max 140 characters)")
	}
	return nil
}

// CreateFreet publishes a new freet for the author.
func (s *FreetService) CreateFreet(ctx context.Context, in CreateFreetInput) (*models.Freet, error) {
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, in.AuthorID); err != nil {
		return nil, err
	}

	freet := &models.Freet{
		AuthorID: in.AuthorID,
		Content:  in.Content,
	}
	if err := s.freetRepo.Create(ctx, freet); err != nil {
		return nil, err
	}
	return s.freetRepo.GetByID(ctx, freet.ID)
}

// GetFreet returns a freet with its resolved author and graph sets.
func (s *FreetService) GetFreet(ctx context.Context, id uint) (*models.Freet, error) {
	return s.freetRepo.GetByID(ctx, id)
}

// ListFreets returns freets from most to least recently modified.
func (s *FreetService) ListFreets(ctx context.Context, limit, offset int) ([]*models.Freet, error) {
	return s.freetRepo.List(ctx, limit, offset)
}

// ListFreetsByAuthor resolves the author by username and returns its freets.
func (s *FreetService) ListFreetsByAuthor(ctx context.Context, username string, limit, offset int) ([]*models.Freet, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return s.freetRepo.GetByAuthorID(ctx, author.ID, limit, offset)
}

// UpdateFreet edits a freet's content and bumps its modification time.
// Only the author may edit; authorship itself never changes.
func (s *FreetService) UpdateFreet(ctx context.Context, in UpdateFreetInput) (*models.Freet, error) {
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}

	freet, err := s.freetRepo.GetByID(ctx, in.FreetID)
	if err != nil {
		return nil, err
	}
	if freet.AuthorID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only edit your own freets")
	}

	return s.freetRepo.UpdateContent(ctx, in.FreetID, in.Content)
}

// DeleteFreet removes a freet and its like/share rows. Only the author may
// delete.
func (s *FreetService) DeleteFreet(ctx context.Context, userID, freetID uint) error {
	freet, err := s.freetRepo.GetByID(ctx, freetID)
	if err != nil {
		return err
	}
	if freet.AuthorID != userID {
		return models.NewUnauthorizedError("You can only delete your own freets")
	}
	return s.freetRepo.Delete(ctx, freetID)
}
