package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListDownloads handles GET /api/downloads.
func (s *Server) ListDownloads(c *fiber.Ctx) error {
	downloads, err := s.downloadService.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(downloads)
}

// CreateDownload handles POST /api/admin/downloads.
func (s *Server) CreateDownload(c *fiber.Ctx) error {
	fh, err := formFile(c, "file")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	download, err := s.downloadService.Create(c.Context(), fh)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(download)
}

// DeleteDownload handles DELETE /api/admin/downloads/:id.
func (s *Server) DeleteDownload(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if err := s.downloadService.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}
