package service

import (
	"context"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/storage"
)

type DownloadService struct {
	downloadRepo repository.DownloadRepository
	files        FileStore
	logger       *slog.Logger
}

func NewDownloadService(downloadRepo repository.DownloadRepository, files FileStore, logger *slog.Logger) *DownloadService {
	return &DownloadService{downloadRepo: downloadRepo, files: files, logger: logger}
}

func (s *DownloadService) List(ctx context.Context) ([]models.Download, error) {
	downloads, err := s.downloadRepo.List(ctx)
	if err != nil {
		return nil, translateDBError(err, "download", nil)
	}
	return downloads, nil
}

// Create stores the uploaded file and records it. A failed insert removes
// the stored file again.
func (s *DownloadService) Create(ctx context.Context, fh *multipart.FileHeader) (*models.Download, error) {
	saved, err := s.files.Save(ctx, fh, storage.KindDocument, "downloads")
	if err != nil {
		return nil, err
	}

	download := &models.Download{
		FileName: fh.Filename,
		FileURL:  saved.URL,
		FileType: strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), ".")),
		FileSize: saved.Size,
	}
	if err := s.downloadRepo.Create(ctx, download); err != nil {
		s.files.DeleteByURL(ctx, saved.URL)
		return nil, translateDBError(err, "download", nil)
	}
	return download, nil
}

// Delete removes the stored file best-effort, then the record. The record
// removal proceeds regardless of storage state.
func (s *DownloadService) Delete(ctx context.Context, id uint) error {
	download, err := s.downloadRepo.GetByID(ctx, id)
	if err != nil {
		return translateDBError(err, "download", id)
	}
	s.files.DeleteByURL(ctx, download.FileURL)
	if err := s.downloadRepo.Delete(ctx, id); err != nil {
		return translateDBError(err, "download", id)
	}
	return nil
}
