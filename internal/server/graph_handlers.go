package server

import (
	"fritter/internal/models"
	"fritter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Follow handles PUT /api/users/:username/follow
func (s *Server) Follow(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username is required"))
	}

	if err := s.graphService.Follow(c.Context(), currentUserID(c), username); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Now following " + username})
}

// Unfollow handles PUT /api/users/:username/unfollow. Removing a follow
// never touches likes or shares of the unfollowed user's freets.
func (s *Server) Unfollow(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username is required"))
	}

	if err := s.graphService.Unfollow(c.Context(), currentUserID(c), username); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Unfollowed " + username})
}

// LikeFreet handles PUT /api/freets/:freetId/like. Liking twice is a no-op.
func (s *Server) LikeFreet(c *fiber.Ctx) error {
	freetID, err := s.parseFreetID(c)
	if err != nil {
		return nil
	}

	freet, err := s.graphService.Like(c.Context(), currentUserID(c), freetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"freet": service.ProjectFreet(freet)})
}

// UnlikeFreet handles PUT /api/freets/:freetId/unlike
func (s *Server) UnlikeFreet(c *fiber.Ctx) error {
	freetID, err := s.parseFreetID(c)
	if err != nil {
		return nil
	}

	freet, err := s.graphService.Unlike(c.Context(), currentUserID(c), freetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"freet": service.ProjectFreet(freet)})
}

// ShareFreet handles PUT /api/freets/:freetId/share. Sharing twice is a no-op.
func (s *Server) ShareFreet(c *fiber.Ctx) error {
	freetID, err := s.parseFreetID(c)
	if err != nil {
		return nil
	}

	freet, err := s.graphService.Share(c.Context(), currentUserID(c), freetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"freet": service.ProjectFreet(freet)})
}

// UnshareFreet handles PUT /api/freets/:freetId/unshare
func (s *Server) UnshareFreet(c *fiber.Ctx) error {
	freetID, err := s.parseFreetID(c)
	if err != nil {
		return nil
	}

	freet, err := s.graphService.Unshare(c.Context(), currentUserID(c), freetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"freet": service.ProjectFreet(freet)})
}
