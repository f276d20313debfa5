package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MusicRepository defines the interface for music track data operations.
type MusicRepository interface {
	List(ctx context.Context) ([]models.Music, error)
	GetByID(ctx context.Context, id uint) (*models.Music, error)
	Create(ctx context.Context, track *models.Music) error
	Update(ctx context.Context, track *models.Music) error
	UpdateCover(ctx context.Context, id uint, coverURL *string) (*string, error)
	SoftDelete(ctx context.Context, id uint) error
}

type musicRepository struct {
	db    *gorm.DB
	cache *cache.Client
}

// NewMusicRepository creates a new music repository.
func NewMusicRepository(db *gorm.DB, cacheClient *cache.Client) MusicRepository {
	return &musicRepository{db: db, cache: cacheClient}
}

func (r *musicRepository) List(ctx context.Context) ([]models.Music, error) {
	return cache.Aside(ctx, r.cache, cache.MusicListKey(), cache.PostListTTL, func(ctx context.Context) ([]models.Music, error) {
		var tracks []models.Music
		err := r.db.WithContext(ctx).
			Scopes(models.ActiveMusic).
			Order("created_at DESC").
			Find(&tracks).Error
		return tracks, err
	})
}

func (r *musicRepository) GetByID(ctx context.Context, id uint) (*models.Music, error) {
	var track models.Music
	err := r.db.WithContext(ctx).
		Scopes(models.ActiveMusic).
		First(&track, id).Error
	if err != nil {
		return nil, err
	}
	return &track, nil
}

func (r *musicRepository) Create(ctx context.Context, track *models.Music) error {
	err := r.db.WithContext(ctx).Create(track).Error
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

func (r *musicRepository) Update(ctx context.Context, track *models.Music) error {
	err := r.db.WithContext(ctx).Save(track).Error
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

// UpdateCover swaps the cover URL and returns the previous one, with the
// same commit-before-unlink contract as post covers.
func (r *musicRepository) UpdateCover(ctx context.Context, id uint, coverURL *string) (*string, error) {
	var old *string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var track models.Music
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(models.ActiveMusic).
			First(&track, id).Error; err != nil {
			return err
		}
		old = track.CoverURL
		return tx.Model(&track).Update("music_cover_url", coverURL).Error
	})
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return old, nil
}

func (r *musicRepository) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Music{}).
		Where("id = ? AND status <> ?", id, models.MusicStatusDeleted).
		Update("status", models.MusicStatusDeleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidate(ctx)
	return nil
}

func (r *musicRepository) invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, cache.MusicListKey())
}
