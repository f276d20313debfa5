package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// DownloadRepository defines the interface for downloadable file records.
type DownloadRepository interface {
	List(ctx context.Context) ([]models.Download, error)
	GetByID(ctx context.Context, id uint) (*models.Download, error)
	Create(ctx context.Context, download *models.Download) error
	Delete(ctx context.Context, id uint) error
}

type downloadRepository struct {
	db *gorm.DB
}

// NewDownloadRepository creates a new download repository.
func NewDownloadRepository(db *gorm.DB) DownloadRepository {
	return &downloadRepository{db: db}
}

func (r *downloadRepository) List(ctx context.Context) ([]models.Download, error) {
	var downloads []models.Download
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&downloads).Error
	return downloads, err
}

func (r *downloadRepository) GetByID(ctx context.Context, id uint) (*models.Download, error) {
	var download models.Download
	if err := r.db.WithContext(ctx).First(&download, id).Error; err != nil {
		return nil, err
	}
	return &download, nil
}

func (r *downloadRepository) Create(ctx context.Context, download *models.Download) error {
	return r.db.WithContext(ctx).Create(download).Error
}

func (r *downloadRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Download{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
