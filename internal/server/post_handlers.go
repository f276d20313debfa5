package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Title      string             `json:"title"`
	Content    string             `json:"content"`
	CategoryID *uint              `json:"category_id"`
	Status     *models.PostStatus `json:"status"`
	TagIDs     []uint             `json:"tag_ids"`
}

type updatePostRequest struct {
	Title      *string            `json:"title"`
	Content    *string            `json:"content"`
	CategoryID *uint              `json:"category_id"`
	Status     *models.PostStatus `json:"status"`
	TagIDs     *[]uint            `json:"tag_ids"`
}

type postTagsRequest struct {
	TagIDs []uint `json:"tag_ids"`
}

func (s *Server) listPosts(c *fiber.Ctx, includeDeleted bool) error {
	in := service.ListPostsInput{
		Page:           queryInt(c, "page", 1),
		PageSize:       queryInt(c, "page_size", 10),
		IncludeDeleted: includeDeleted,
	}

	if raw := c.Query("status"); raw != "" {
		status := models.PostStatus(queryInt(c, "status", -1))
		in.Status = &status
	} else if !includeDeleted {
		// The public listing only shows published posts.
		published := models.PostStatusPublished
		in.Status = &published
	}
	if raw := queryInt(c, "category_id", 0); raw > 0 {
		categoryID := uint(raw)
		in.CategoryID = &categoryID
	}
	if raw := queryInt(c, "tag_id", 0); raw > 0 {
		tagID := uint(raw)
		in.TagID = &tagID
	}
	in.Search = c.Query("search")

	posts, total, err := s.postService.List(c.Context(), in)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"posts":     posts,
		"total":     total,
		"page":      in.Page,
		"page_size": in.PageSize,
	})
}

// ListPosts handles GET /api/posts.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	return s.listPosts(c, false)
}

// ListAllPosts handles GET /api/admin/posts, including drafts and deleted.
func (s *Server) ListAllPosts(c *fiber.Ctx) error {
	return s.listPosts(c, true)
}

// GetPost handles GET /api/posts/:id.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	post, err := s.postService.Get(c.Context(), id, false)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/admin/posts.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("invalid request body"))
	}

	post, err := s.postService.Create(c.Context(), service.CreatePostInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		Status:     req.Status,
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/admin/posts/:id with partial-update semantics.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("invalid request body"))
	}

	post, err := s.postService.Update(c.Context(), id, service.UpdatePostInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		Status:     req.Status,
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/admin/posts/:id as a soft delete.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if err := s.postService.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// UpdatePostTags handles PUT /api/admin/posts/:id/tags.
func (s *Server) UpdatePostTags(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	var req postTagsRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("invalid request body"))
	}

	tags, err := s.postService.UpdateTags(c.Context(), id, req.TagIDs)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"tags": tags})
}

// UpdatePostCover handles PUT /api/admin/posts/:id/cover.
func (s *Server) UpdatePostCover(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	fh, err := formFile(c, "cover")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	url, err := s.postService.UpdateCover(c.Context(), id, fh)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"cover_url": url})
}

// UploadPostImage handles POST /api/admin/posts/:id/images.
func (s *Server) UploadPostImage(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}
	fh, err := formFile(c, "image")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	url, err := s.postService.UploadImage(c.Context(), id, fh)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"image_url": url})
}
