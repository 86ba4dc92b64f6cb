package server

import (
	"fritter/internal/models"
	"fritter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFreets handles GET /api/freets. Without a query it returns all freets,
// most recently modified first; with ?author=username it returns only that
// author's freets in the same order.
func (s *Server) GetFreets(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	author := c.Query("author")
	var (
		freets []*models.Freet
		err    error
	)
	if author != "" {
		freets, err = s.freetService.ListFreetsByAuthor(c.Context(), author, p.Limit, p.Offset)
	} else {
		freets, err = s.freetService.ListFreets(c.Context(), p.Limit, p.Offset)
	}
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"freets": service.ProjectFreets(freets)})
}

// GetFreet handles GET /api/freets/:freetId
func (s *Server) GetFreet(c *fiber.Ctx) error {
	freetID, err := s.parseFreetID(c)
	if err != nil {
		return nil
	}

	freet, err := s.freetService.GetFreet(c.Context(), freetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"freet": service.ProjectFreet(freet)})
}

// CreateFreet handles POST /api/freets
func (s *Server) CreateFreet(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	freet, err := s.freetService.CreateFreet(c.Context(), service.CreateFreetInput{
		AuthorID: currentUserID(c),
		Content:  req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"freet": service.ProjectFreet(freet),
	})
}

// UpdateFreet handles PATCH /api/freets/:freetId. Only the author may edit,
// and an accepted edit bumps the freet's modification timestamp so it
// resurfaces at the top of ordered views.
func (s *Server) UpdateFreet(c *fiber.Ctx) error {
	freetID, err := s.parseFreetID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	freet, err := s.freetService.UpdateFreet(c.Context(), service.UpdateFreetInput{
		UserID:  currentUserID(c),
		FreetID: freetID,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"freet": service.ProjectFreet(freet)})
}

// DeleteFreet handles DELETE /api/freets/:freetId (author only).
func (s *Server) DeleteFreet(c *fiber.Ctx) error {
	freetID, err := s.parseFreetID(c)
	if err != nil {
		return nil
	}

	if err := s.freetService.DeleteFreet(c.Context(), currentUserID(c), freetID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Freet deleted"})
}
