package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

type categoryRequest struct {
	Name string `json:"name"`
}

// ListCategories handles GET /api/categories.
func (s *Server) ListCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(categories)
}

// GetCategory handles GET /api/categories/:id.
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	category, err := s.categoryService.Get(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(category)
}

// CreateCategory handles POST /api/admin/categories.
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("invalid request body"))
	}
	category, err := s.categoryService.Create(c.Context(), req.Name)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory handles PUT /api/admin/categories/:id.
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("invalid request body"))
	}
	category, err := s.categoryService.Update(c.Context(), id, req.Name)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory handles DELETE /api/admin/categories/:id. Deletion is
// refused with 409 while any active post still uses the category.
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if err := s.categoryService.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}
