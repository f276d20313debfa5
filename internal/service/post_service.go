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

// FileStore is the slice of the upload handler services depend on.
type FileStore interface {
	Save(ctx context.Context, fh *multipart.FileHeader, kind storage.Kind, subfolder string) (*storage.SavedFile, error)
	DeleteByURL(ctx context.Context, url string)
}

type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	files        FileStore
	logger       *slog.Logger
}

type CreatePostInput struct {
	Title      string
	Content    string
	CategoryID *uint
	Status     *models.PostStatus
	TagIDs     []uint
}

type UpdatePostInput struct {
	Title      *string
	Content    *string
	CategoryID *uint
	Status     *models.PostStatus
	TagIDs     *[]uint
}

type ListPostsInput struct {
	Page           int
	PageSize       int
	Status         *models.PostStatus
	CategoryID     *uint
	TagID          *uint
	Search         string
	IncludeDeleted bool
}

func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	files FileStore,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		files:        files,
		logger:       logger,
	}
}

func (s *PostService) List(ctx context.Context, in ListPostsInput) ([]models.PostWithDetails, int64, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, 0, models.NewValidationError("invalid post status")
	}
	posts, total, err := s.postRepo.List(ctx, repository.ListPostsParams{
		Page:           in.Page,
		PageSize:       in.PageSize,
		Status:         in.Status,
		CategoryID:     in.CategoryID,
		TagID:          in.TagID,
		Search:         strings.TrimSpace(in.Search),
		IncludeDeleted: in.IncludeDeleted,
	})
	if err != nil {
		return nil, 0, translateDBError(err, "post", nil)
	}
	return posts, total, nil
}

func (s *PostService) Get(ctx context.Context, id uint, includeDeleted bool) (*models.PostWithDetails, error) {
	post, err := s.postRepo.GetByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, translateDBError(err, "post", id)
	}
	return post, nil
}

func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.PostWithDetails, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("post title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("post content is required")
	}

	status := models.PostStatusDraft
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, models.NewValidationError("invalid post status")
		}
		status = *in.Status
	}

	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, models.NewValidationError("category does not exist")
		}
	}

	post := &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		CategoryID: in.CategoryID,
		Status:     status,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, translateDBError(err, "post", nil)
	}

	if len(in.TagIDs) > 0 {
		if err := s.tagRepo.ReplacePostTags(ctx, post.ID, in.TagIDs); err != nil {
			return nil, translateDBError(err, "post", post.ID)
		}
	}

	return s.Get(ctx, post.ID, true)
}

// Update applies a partial update: only fields present in the input change,
// everything else keeps its stored value.
func (s *PostService) Update(ctx context.Context, id uint, in UpdatePostInput) (*models.PostWithDetails, error) {
	existing, err := s.postRepo.GetByID(ctx, id, false)
	if err != nil {
		return nil, translateDBError(err, "post", id)
	}

	post := existing.Post
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, models.NewValidationError("post title is required")
		}
		post.Title = *in.Title
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, models.NewValidationError("post content is required")
		}
		post.Content = *in.Content
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, models.NewValidationError("category does not exist")
		}
		post.CategoryID = in.CategoryID
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, models.NewValidationError("invalid post status")
		}
		post.Status = *in.Status
	}

	if err := s.postRepo.Update(ctx, &post); err != nil {
		return nil, translateDBError(err, "post", id)
	}

	if in.TagIDs != nil {
		if err := s.tagRepo.ReplacePostTags(ctx, id, *in.TagIDs); err != nil {
			return nil, translateDBError(err, "post", id)
		}
	}

	return s.Get(ctx, id, true)
}

// UpdateTags swaps the post's tag set atomically.
func (s *PostService) UpdateTags(ctx context.Context, id uint, tagIDs []uint) ([]models.Tag, error) {
	if err := s.tagRepo.ReplacePostTags(ctx, id, tagIDs); err != nil {
		return nil, translateDBError(err, "post", id)
	}
	tags, err := s.tagRepo.ListByPost(ctx, id)
	if err != nil {
		return nil, translateDBError(err, "post", id)
	}
	return tags, nil
}

// UpdateCover stores the new cover, commits the database update, and only
// then removes the previous file. A failed database update rolls the new
// file back instead, so the stored row never references a missing file.
func (s *PostService) UpdateCover(ctx context.Context, id uint, fh *multipart.FileHeader) (string, error) {
	saved, err := s.files.Save(ctx, fh, storage.KindImage, "covers")
	if err != nil {
		return "", err
	}

	oldURL, err := s.postRepo.UpdateCover(ctx, id, &saved.URL)
	if err != nil {
		s.files.DeleteByURL(ctx, saved.URL)
		return "", translateDBError(err, "post", id)
	}

	if oldURL != nil {
		s.files.DeleteByURL(ctx, *oldURL)
	}
	return saved.URL, nil
}

// UploadImage stores an inline image and appends it to the post's image list.
func (s *PostService) UploadImage(ctx context.Context, id uint, fh *multipart.FileHeader) (string, error) {
	existing, err := s.postRepo.GetByID(ctx, id, false)
	if err != nil {
		return "", translateDBError(err, "post", id)
	}

	saved, err := s.files.Save(ctx, fh, storage.KindImage, "images")
	if err != nil {
		return "", err
	}

	post := existing.Post
	post.PostImages = append(post.PostImages, saved.URL)
	if err := s.postRepo.Update(ctx, &post); err != nil {
		s.files.DeleteByURL(ctx, saved.URL)
		return "", translateDBError(err, "post", id)
	}
	return saved.URL, nil
}

// Delete removes the post's files best-effort and then soft-deletes the row.
// The row keeps its URL fields for audit; a failed file delete never blocks
// the status flip.
func (s *PostService) Delete(ctx context.Context, id uint) error {
	existing, err := s.postRepo.GetByID(ctx, id, false)
	if err != nil {
		return translateDBError(err, "post", id)
	}

	if existing.CoverURL != nil {
		s.files.DeleteByURL(ctx, *existing.CoverURL)
	}
	for _, url := range existing.PostImages {
		s.files.DeleteByURL(ctx, url)
	}

	if err := s.postRepo.SoftDelete(ctx, id); err != nil {
		return translateDBError(err, "post", id)
	}
	return nil
}
