package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

type tagRequest struct {
	Name string `json:"name"`
}

// ListTags handles GET /api/tags.
func (s *Server) ListTags(c *fiber.Ctx) error {
	tags, err := s.tagService.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(tags)
}

// CreateTag handles POST /api/admin/tags.
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req tagRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("invalid request body"))
	}
	tag, err := s.tagService.Create(c.Context(), req.Name)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// UpdateTag handles PUT /api/admin/tags/:id.
func (s *Server) UpdateTag(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	var req tagRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("invalid request body"))
	}
	tag, err := s.tagService.Update(c.Context(), id, req.Name)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(tag)
}

// DeleteTag handles DELETE /api/admin/tags/:id.
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if err := s.tagService.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}
