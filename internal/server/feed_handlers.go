package server

import (
	"fritter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetTimeline handles GET /api/users/timeline: the caller's own freets
// plus freets they shared, most recently modified first.
func (s *Server) GetTimeline(c *fiber.Ctx) error {
	freets, err := s.feedService.Timeline(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"freets": service.ProjectFreets(freets)})
}

// GetFeed handles GET /api/users/feed: freets authored or shared by users
// the caller follows, plus the caller's own, each appearing at most once.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	freets, err := s.feedService.Feed(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"freets": service.ProjectFreets(freets)})
}
