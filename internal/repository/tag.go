package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository defines the interface for tag data operations, including the
// post-tag assignment table.
type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id uint) error
	ListByPost(ctx context.Context, postID uint) ([]models.Tag, error)
	ReplacePostTags(ctx context.Context, postID uint, tagIDs []uint) error
}

type tagRepository struct {
	db    *gorm.DB
	cache *cache.Client
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(db *gorm.DB, cacheClient *cache.Client) TagRepository {
	return &tagRepository{db: db, cache: cacheClient}
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	return cache.Aside(ctx, r.cache, cache.TagsKey(), cache.TaxonomyTTL, func(ctx context.Context) ([]models.Tag, error) {
		var tags []models.Tag
		err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
		return tags, err
	})
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	err := r.db.WithContext(ctx).Create(tag).Error
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

func (r *tagRepository) Update(ctx context.Context, tag *models.Tag) error {
	err := r.db.WithContext(ctx).Save(tag).Error
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

// Delete removes a tag unless it is still assigned to an active post. Same
// lock-count-delete shape as category deletion; assignments belonging to
// soft-deleted posts do not block removal.
func (r *tagRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&tag, id).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.PostTag{}).
			Joins("JOIN posts ON posts.id = post_tags.post_id").
			Where("post_tags.tag_id = ? AND posts.status <> ?", id, models.PostStatusDeleted).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrInUse
		}

		if err := tx.Where("tag_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tag{}, id).Error
	})
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

func (r *tagRepository) ListByPost(ctx context.Context, postID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Model(&models.Tag{}).
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("post_tags.post_id = ?", postID).
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, err
}

// ReplacePostTags swaps a post's tag set atomically. A missing or
// soft-deleted post reports not found. Every requested tag is verified inside
// the transaction before anything is deleted, so an unknown tag leaves the
// previous assignment fully intact.
func (r *tagRepository) ReplacePostTags(ctx context.Context, postID uint, tagIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(models.ActivePosts).
			First(&post, postID).Error; err != nil {
			return err
		}

		unique := dedupe(tagIDs)
		if len(unique) > 0 {
			var found int64
			if err := tx.Model(&models.Tag{}).Where("id IN ?", unique).Count(&found).Error; err != nil {
				return err
			}
			if found != int64(len(unique)) {
				return ErrUnknownTags
			}
		}

		if err := tx.Where("post_id = ?", postID).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		if len(unique) == 0 {
			return nil
		}

		rows := make([]models.PostTag, 0, len(unique))
		for _, tagID := range unique {
			rows = append(rows, models.PostTag{PostID: postID, TagID: tagID})
		}
		return tx.Create(&rows).Error
	})
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

func (r *tagRepository) invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, cache.TagsKey())
	r.cache.DeletePattern(ctx, cache.PostPattern())
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
