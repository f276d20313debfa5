package server

import (
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// Dashboard handles GET /api/admin/dashboard with content counts for the
// admin overview page.
func (s *Server) Dashboard(c *fiber.Ctx) error {
	ctx := c.Context()

	_, totalPosts, err := s.postRepo.List(ctx, repository.ListPostsParams{Page: 1, PageSize: 1, IncludeDeleted: true})
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	published := models.PostStatusPublished
	_, publishedPosts, err := s.postRepo.List(ctx, repository.ListPostsParams{Page: 1, PageSize: 1, Status: &published})
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	tags, err := s.tagRepo.List(ctx)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	tracks, err := s.musicRepo.List(ctx)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	downloads, err := s.downloadRepo.List(ctx)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	resp := fiber.Map{
		"posts": fiber.Map{
			"total":     totalPosts,
			"published": publishedPosts,
		},
		"categories": len(categories),
		"tags":       len(tags),
		"music":      len(tracks),
		"downloads":  len(downloads),
	}
	if s.metrics != nil {
		resp["uptime_seconds"] = int64(s.metrics.Uptime().Seconds())
	}
	return c.JSON(resp)
}
