package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListMusic handles GET /api/music.
func (s *Server) ListMusic(c *fiber.Ctx) error {
	tracks, err := s.musicService.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(tracks)
}

// GetMusic handles GET /api/music/:id.
func (s *Server) GetMusic(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	track, err := s.musicService.Get(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(track)
}

// CreateMusic handles POST /api/admin/music as a multipart form with name,
// author, a required music file, and an optional cover.
func (s *Server) CreateMusic(c *fiber.Ctx) error {
	in := service.CreateMusicInput{
		Name:   c.FormValue("name"),
		Author: c.FormValue("author"),
	}
	if fh, err := c.FormFile("music"); err == nil {
		in.Track = fh
	}
	if fh, err := c.FormFile("cover"); err == nil {
		in.Cover = fh
	}

	track, err := s.musicService.Create(c.Context(), in)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(track)
}

// UpdateMusic handles PUT /api/admin/music/:id with partial-update semantics.
func (s *Server) UpdateMusic(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req struct {
		Name   *string `json:"name"`
		Author *string `json:"author"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("invalid request body"))
	}

	track, err := s.musicService.Update(c.Context(), id, service.UpdateMusicInput{
		Name:   req.Name,
		Author: req.Author,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(track)
}

// UpdateMusicCover handles PUT /api/admin/music/:id/cover.
func (s *Server) UpdateMusicCover(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	fh, err := formFile(c, "cover")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	url, err := s.musicService.UpdateCover(c.Context(), id, fh)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"cover_url": url})
}

// DeleteMusic handles DELETE /api/admin/music/:id as a soft delete.
func (s *Server) DeleteMusic(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if err := s.musicService.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}
