package service

import (
	"context"
	"log/slog"
	"mime/multipart"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/storage"
)

type AboutService struct {
	aboutRepo repository.AboutRepository
	files     FileStore
	logger    *slog.Logger
}

type UpdateAboutInput struct {
	Title    *string
	Subtitle *string
	Content  *string
}

func NewAboutService(aboutRepo repository.AboutRepository, files FileStore, logger *slog.Logger) *AboutService {
	return &AboutService{aboutRepo: aboutRepo, files: files, logger: logger}
}

func (s *AboutService) Get(ctx context.Context) (*models.About, error) {
	about, err := s.aboutRepo.Get(ctx)
	if err != nil {
		return nil, translateDBError(err, "about", nil)
	}
	return about, nil
}

// Update applies a partial update to the singleton about page.
func (s *AboutService) Update(ctx context.Context, in UpdateAboutInput) (*models.About, error) {
	about, err := s.aboutRepo.Get(ctx)
	if err != nil {
		return nil, translateDBError(err, "about", nil)
	}

	if in.Title != nil {
		about.Title = *in.Title
	}
	if in.Subtitle != nil {
		about.Subtitle = *in.Subtitle
	}
	if in.Content != nil {
		about.Content = *in.Content
	}

	if err := s.aboutRepo.Update(ctx, about); err != nil {
		return nil, translateDBError(err, "about", nil)
	}
	return about, nil
}

// UpdatePhoto replaces the profile photo, removing the previous file only
// after the row points at the new one.
func (s *AboutService) UpdatePhoto(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	saved, err := s.files.Save(ctx, fh, storage.KindImage, "about")
	if err != nil {
		return "", err
	}

	about, err := s.aboutRepo.Get(ctx)
	if err != nil {
		s.files.DeleteByURL(ctx, saved.URL)
		return "", translateDBError(err, "about", nil)
	}

	oldURL := about.PhotoURL
	about.PhotoURL = &saved.URL
	if err := s.aboutRepo.Update(ctx, about); err != nil {
		s.files.DeleteByURL(ctx, saved.URL)
		return "", translateDBError(err, "about", nil)
	}

	if oldURL != nil {
		s.files.DeleteByURL(ctx, *oldURL)
	}
	return saved.URL, nil
}
