package server

import (
	"mime/multipart"
	"strconv"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("invalid " + name)
	}
	return uint(id), nil
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// formFile returns the named multipart file or a validation error.
func formFile(c *fiber.Ctx, name string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(name)
	if err != nil {
		return nil, models.NewValidationError(name + " file is required")
	}
	return fh, nil
}
