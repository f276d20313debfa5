package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// AboutRepository manages the singleton about-page row.
type AboutRepository interface {
	Get(ctx context.Context) (*models.About, error)
	Update(ctx context.Context, about *models.About) error
}

type aboutRepository struct {
	db    *gorm.DB
	cache *cache.Client
}

// NewAboutRepository creates a new about repository.
func NewAboutRepository(db *gorm.DB, cacheClient *cache.Client) AboutRepository {
	return &aboutRepository{db: db, cache: cacheClient}
}

func (r *aboutRepository) Get(ctx context.Context) (*models.About, error) {
	about, err := cache.Aside(ctx, r.cache, cache.AboutKey(), cache.AboutTTL, func(ctx context.Context) (models.About, error) {
		var about models.About
		err := r.db.WithContext(ctx).First(&about, models.AboutID).Error
		return about, err
	})
	if err != nil {
		return nil, err
	}
	return &about, nil
}

func (r *aboutRepository) Update(ctx context.Context, about *models.About) error {
	about.ID = models.AboutID
	err := r.db.WithContext(ctx).Save(about).Error
	if err == nil && r.cache != nil {
		r.cache.Delete(ctx, cache.AboutKey())
	}
	return err
}
