package service

import (
	"context"
	"log/slog"
	"mime/multipart"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/storage"
)

type MusicService struct {
	musicRepo repository.MusicRepository
	files     FileStore
	logger    *slog.Logger
}

type CreateMusicInput struct {
	Name   string
	Author string
	Track  *multipart.FileHeader
	Cover  *multipart.FileHeader
}

type UpdateMusicInput struct {
	Name   *string
	Author *string
}

func NewMusicService(musicRepo repository.MusicRepository, files FileStore, logger *slog.Logger) *MusicService {
	return &MusicService{musicRepo: musicRepo, files: files, logger: logger}
}

func (s *MusicService) List(ctx context.Context) ([]models.Music, error) {
	tracks, err := s.musicRepo.List(ctx)
	if err != nil {
		return nil, translateDBError(err, "music", nil)
	}
	return tracks, nil
}

func (s *MusicService) Get(ctx context.Context, id uint) (*models.Music, error) {
	track, err := s.musicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateDBError(err, "music", id)
	}
	return track, nil
}

// Create uploads the audio file (and optional cover) before inserting the
// row; a failed insert removes whatever was stored.
func (s *MusicService) Create(ctx context.Context, in CreateMusicInput) (*models.Music, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, models.NewValidationError("music name is required")
	}
	if strings.TrimSpace(in.Author) == "" {
		return nil, models.NewValidationError("music author is required")
	}
	if in.Track == nil {
		return nil, models.NewValidationError("music file is required")
	}

	saved, err := s.files.Save(ctx, in.Track, storage.KindMusic, "music")
	if err != nil {
		return nil, err
	}

	var coverURL *string
	if in.Cover != nil {
		cover, err := s.files.Save(ctx, in.Cover, storage.KindImage, "covers")
		if err != nil {
			s.files.DeleteByURL(ctx, saved.URL)
			return nil, err
		}
		coverURL = &cover.URL
	}

	track := &models.Music{
		Name:     in.Name,
		Author:   in.Author,
		MusicURL: saved.URL,
		CoverURL: coverURL,
		Status:   models.MusicStatusPublished,
	}
	if err := s.musicRepo.Create(ctx, track); err != nil {
		s.files.DeleteByURL(ctx, saved.URL)
		if coverURL != nil {
			s.files.DeleteByURL(ctx, *coverURL)
		}
		return nil, translateDBError(err, "music", nil)
	}
	return track, nil
}

// Update applies a partial update to name and author.
func (s *MusicService) Update(ctx context.Context, id uint, in UpdateMusicInput) (*models.Music, error) {
	track, err := s.musicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateDBError(err, "music", id)
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, models.NewValidationError("music name is required")
		}
		track.Name = *in.Name
	}
	if in.Author != nil {
		if strings.TrimSpace(*in.Author) == "" {
			return nil, models.NewValidationError("music author is required")
		}
		track.Author = *in.Author
	}

	if err := s.musicRepo.Update(ctx, track); err != nil {
		return nil, translateDBError(err, "music", id)
	}
	return track, nil
}

// UpdateCover follows the same commit-before-unlink ordering as post covers.
func (s *MusicService) UpdateCover(ctx context.Context, id uint, fh *multipart.FileHeader) (string, error) {
	saved, err := s.files.Save(ctx, fh, storage.KindImage, "covers")
	if err != nil {
		return "", err
	}

	oldURL, err := s.musicRepo.UpdateCover(ctx, id, &saved.URL)
	if err != nil {
		s.files.DeleteByURL(ctx, saved.URL)
		return "", translateDBError(err, "music", id)
	}

	if oldURL != nil {
		s.files.DeleteByURL(ctx, *oldURL)
	}
	return saved.URL, nil
}

// Delete removes the track's files best-effort and then soft-deletes the
// row. The row keeps its URL fields for audit.
func (s *MusicService) Delete(ctx context.Context, id uint) error {
	track, err := s.musicRepo.GetByID(ctx, id)
	if err != nil {
		return translateDBError(err, "music", id)
	}

	s.files.DeleteByURL(ctx, track.MusicURL)
	if track.CoverURL != nil {
		s.files.DeleteByURL(ctx, *track.CoverURL)
	}

	if err := s.musicRepo.SoftDelete(ctx, id); err != nil {
		return translateDBError(err, "music", id)
	}
	return nil
}
