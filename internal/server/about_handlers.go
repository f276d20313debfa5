package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAbout handles GET /api/about.
func (s *Server) GetAbout(c *fiber.Ctx) error {
	about, err := s.aboutService.Get(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(about)
}

// UpdateAbout handles PUT /api/admin/about with partial-update semantics.
func (s *Server) UpdateAbout(c *fiber.Ctx) error {
	var req struct {
		Title    *string `json:"title"`
		Subtitle *string `json:"subtitle"`
		Content  *string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("invalid request body"))
	}

	about, err := s.aboutService.Update(c.Context(), service.UpdateAboutInput{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Content:  req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(about)
}

// UpdateAboutPhoto handles PUT /api/admin/about/photo.
func (s *Server) UpdateAboutPhoto(c *fiber.Ctx) error {
	fh, err := formFile(c, "photo")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	url, err := s.aboutService.UpdatePhoto(c.Context(), fh)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"photo_url": url})
}
