package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type TagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.tagRepo.List(ctx)
	if err != nil {
		return nil, translateDBError(err, "tag", nil)
	}
	return tags, nil
}

func (s *TagService) Get(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateDBError(err, "tag", id)
	}
	return tag, nil
}

func (s *TagService) Create(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("tag name is required")
	}

	tag := &models.Tag{Name: name}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, translateDBError(err, "tag", nil)
	}
	return tag, nil
}

func (s *TagService) Update(ctx context.Context, id uint, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("tag name is required")
	}

	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateDBError(err, "tag", id)
	}

	tag.Name = name
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, translateDBError(err, "tag", id)
	}
	return tag, nil
}

// Delete removes a tag unless it is still assigned to an active post.
func (s *TagService) Delete(ctx context.Context, id uint) error {
	if err := s.tagRepo.Delete(ctx, id); err != nil {
		return translateDBError(err, "tag", id)
	}
	return nil
}
