package repository

import (
	"context"
	"fmt"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListPostsParams narrows and pages a post listing. Status filters to one
// status when set; IncludeDeleted widens the listing past the active scope
// for admin views.
type ListPostsParams struct {
	Page           int
	PageSize       int
	Status         *models.PostStatus
	CategoryID     *uint
	TagID          *uint
	Search         string
	IncludeDeleted bool
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	List(ctx context.Context, params ListPostsParams) ([]models.PostWithDetails, int64, error)
	GetByID(ctx context.Context, id uint, includeDeleted bool) (*models.PostWithDetails, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	UpdateCover(ctx context.Context, id uint, coverURL *string) (*string, error)
	SoftDelete(ctx context.Context, id uint) error
}

type postRepository struct {
	db    *gorm.DB
	cache *cache.Client
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB, cacheClient *cache.Client) PostRepository {
	return &postRepository{db: db, cache: cacheClient}
}

func (r *postRepository) List(ctx context.Context, params ListPostsParams) ([]models.PostWithDetails, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 10
	}

	type page struct {
		Items []models.PostWithDetails `json:"items"`
		Total int64                    `json:"total"`
	}

	statusKey := "active"
	switch {
	case params.Status != nil:
		statusKey = params.Status.String()
	case params.IncludeDeleted:
		statusKey = "all"
	}
	key := cache.PostListKey(params.Page, params.PageSize, statusKey)
	if params.CategoryID != nil {
		key = fmt.Sprintf("%s:cat:%d", key, *params.CategoryID)
	}
	if params.TagID != nil {
		key = fmt.Sprintf("%s:tag:%d", key, *params.TagID)
	}

	load := func(ctx context.Context) (page, error) {
		var out page

		base := r.db.WithContext(ctx).Model(&models.Post{})
		if params.Status != nil {
			base = base.Where("posts.status = ?", *params.Status)
		} else if !params.IncludeDeleted {
			base = base.Scopes(models.ActivePosts)
		}
		if params.CategoryID != nil {
			base = base.Where("posts.category_id = ?", *params.CategoryID)
		}
		if params.TagID != nil {
			base = base.Where("EXISTS (SELECT 1 FROM post_tags WHERE post_tags.post_id = posts.id AND post_tags.tag_id = ?)", *params.TagID)
		}
		if params.Search != "" {
			pattern := "%" + params.Search + "%"
			base = base.Where("(LOWER(posts.title) LIKE LOWER(?) OR LOWER(posts.content) LIKE LOWER(?))", pattern, pattern)
		}

		if err := base.Session(&gorm.Session{}).Count(&out.Total).Error; err != nil {
			return out, err
		}

		err := base.
			Select("posts.*, categories.name AS category_name").
			Joins("LEFT JOIN categories ON categories.id = posts.category_id").
			Order("posts.created_at DESC").
			Limit(params.PageSize).
			Offset((params.Page - 1) * params.PageSize).
			Find(&out.Items).Error
		if err != nil {
			return out, err
		}

		return out, r.attachTags(ctx, out.Items)
	}

	// Free-text searches are unbounded in key space, so they bypass the cache.
	var result page
	var err error
	if params.Search != "" {
		result, err = load(ctx)
	} else {
		result, err = cache.Aside(ctx, r.cache, key, cache.PostListTTL, load)
	}
	if err != nil {
		return nil, 0, err
	}
	return result.Items, result.Total, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, includeDeleted bool) (*models.PostWithDetails, error) {
	load := func(ctx context.Context) (models.PostWithDetails, error) {
		var post models.PostWithDetails

		q := r.db.WithContext(ctx).Model(&models.Post{}).
			Select("posts.*, categories.name AS category_name").
			Joins("LEFT JOIN categories ON categories.id = posts.category_id").
			Where("posts.id = ?", id)
		if !includeDeleted {
			q = q.Scopes(models.ActivePosts)
		}
		if err := q.First(&post).Error; err != nil {
			return post, err
		}
		return post, r.loadTags(ctx, &post)
	}

	if includeDeleted {
		post, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return &post, nil
	}

	post, err := cache.Aside(ctx, r.cache, cache.PostKey(id), cache.PostTTL, load)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Save(post).Error
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

// UpdateCover swaps the cover URL and returns the previous one. The row is
// locked and the write committed before the caller touches any file, so the
// database never points at a file that has already been removed.
func (r *postRepository) UpdateCover(ctx context.Context, id uint, coverURL *string) (*string, error) {
	var old *string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(models.ActivePosts).
			First(&post, id).Error; err != nil {
			return err
		}
		old = post.CoverURL
		return tx.Model(&post).Update("cover_url", coverURL).Error
	})
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return old, nil
}

// SoftDelete flips the status to deleted. Already-deleted and missing posts
// both report not found.
func (r *postRepository) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND status <> ?", id, models.PostStatusDeleted).
		Update("status", models.PostStatusDeleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidate(ctx)
	return nil
}

func (r *postRepository) loadTags(ctx context.Context, post *models.PostWithDetails) error {
	return r.db.WithContext(ctx).Model(&models.Tag{}).
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("post_tags.post_id = ?", post.ID).
		Order("tags.name ASC").
		Find(&post.Tags).Error
}

// attachTags fills Tags for a page of posts with a single query.
func (r *postRepository) attachTags(ctx context.Context, posts []models.PostWithDetails) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(posts))
	for i := range posts {
		ids = append(ids, posts[i].ID)
	}

	type taggedRow struct {
		models.Tag
		PostID uint `gorm:"column:post_id"`
	}
	var rows []taggedRow
	err := r.db.WithContext(ctx).Model(&models.Tag{}).
		Select("tags.*, post_tags.post_id AS post_id").
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("post_tags.post_id IN ?", ids).
		Order("tags.name ASC").
		Find(&rows).Error
	if err != nil {
		return err
	}

	byPost := make(map[uint][]models.Tag, len(posts))
	for _, row := range rows {
		byPost[row.PostID] = append(byPost[row.PostID], row.Tag)
	}
	for i := range posts {
		posts[i].Tags = byPost[posts[i].ID]
	}
	return nil
}

func (r *postRepository) invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	r.cache.DeletePattern(ctx, cache.PostPattern())
}
