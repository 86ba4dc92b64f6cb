package service

import (
	"context"
	"strings"

	"fritter/internal/models"
	"fritter/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserService provides account management: signup, credentials, profile
// updates, and the user projection with its derived relationship sets.
type UserService struct {
	userRepo  repository.UserRepository
	graphRepo repository.GraphRepository
}

// UpdateProfileInput carries the mutable profile fields. Empty fields are
// left unchanged.
type UpdateProfileInput struct {
	UserID   uint
	Username string
	Password string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, graphRepo repository.GraphRepository) *UserService {
	return &UserService{userRepo: userRepo, graphRepo: graphRepo}
}

const maxUsernameLen = 30

// Register creates a new account. The username must not collide with an
// existing one, compared case-insensitively.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, models.NewValidationError("Username is required")
	}
	if len(username) > maxUsernameLen {
		return nil, models.NewValidationError("Username too long (max 30 characters)")
	}
	if password == "" {
		return nil, models.NewValidationError("Password is required")
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateUsernameError(username)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies a username/password pair and returns the user.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}
	return user, nil
}

// GetUserByID returns the bare user record.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers returns a page of users.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// UpdateProfile changes the username and/or password.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != "" {
		username := strings.TrimSpace(in.Username)
		if len(username) > maxUsernameLen {
			return nil, models.NewValidationError("Username too long (max 30 characters)")
		}
		existing, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, models.NewDuplicateUsernameError(username)
		}
		user.Username = username
	}
	if in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Profile resolves a user by username and assembles its projection with
// the derived relationship sets.
func (s *UserService) Profile(ctx context.Context, username string) (*UserResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return s.ProfileByID(ctx, user.ID)
}

// ProfileByID assembles the projection for an already-resolved user id.
func (s *UserService) ProfileByID(ctx context.Context, userID uint) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	following, err := s.graphRepo.Following(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followers, err := s.graphRepo.Followers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	liked, err := s.graphRepo.LikedFreetIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	shared, err := s.graphRepo.SharedFreetIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	posted, err := s.graphRepo.PostedFreetIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	graph := UserGraph{
		LikedFreets:  liked,
		SharedFreets: shared,
		PostedFreets: posted,
	}
	for _, u := range following {
		graph.Followed = append(graph.Followed, u.Username)
	}
	for _, u := range followers {
		graph.Followers = append(graph.Followers, u.Username)
	}

	resp := ProjectUser(user, graph)
	return &resp, nil
}
