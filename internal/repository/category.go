package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository defines the interface for category data operations.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db    *gorm.DB
	cache *cache.Client
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB, cacheClient *cache.Client) CategoryRepository {
	return &categoryRepository{db: db, cache: cacheClient}
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	return cache.Aside(ctx, r.cache, cache.CategoriesKey(), cache.TaxonomyTTL, func(ctx context.Context) ([]models.Category, error) {
		var categories []models.Category
		err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
		return categories, err
	})
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	err := r.db.WithContext(ctx).Create(category).Error
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	err := r.db.WithContext(ctx).Save(category).Error
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

// Delete removes a category unless an active post still references it. The
// category row is locked for the duration of the transaction so a concurrent
// post create cannot slip in between the reference count and the delete.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&category, id).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Post{}).
			Where("category_id = ? AND status <> ?", id, models.PostStatusDeleted).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrInUse
		}

		return tx.Delete(&models.Category{}, id).Error
	})
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

func (r *categoryRepository) invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, cache.CategoriesKey())
	// Category names are denormalized into post detail payloads.
	r.cache.DeletePattern(ctx, cache.PostPattern())
}
