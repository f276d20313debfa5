package repository

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCategoryRepository_CreateDuplicateName(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Category{Name: "Tech"}))
	err := repo.Create(ctx, &models.Category{Name: "Tech"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCategoryRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db, nil)
	ctx := context.Background()

	createCategory(t, db, "Zig")
	createCategory(t, db, "Ada")

	categories, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Ada", categories[0].Name)
	assert.Equal(t, "Zig", categories[1].Name)
}

func TestCategoryRepository_DeleteMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db, nil)

	err := repo.Delete(context.Background(), 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCategoryRepository_DeleteBlockedWhileReferenced(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db, nil)
	ctx := context.Background()

	tech := createCategory(t, db, "Tech")
	post := createPost(t, db, "Intro", &tech.ID, models.PostStatusPublished)

	err := repo.Delete(ctx, tech.ID)
	assert.ErrorIs(t, err, ErrInUse)

	// The category must remain readable after a blocked delete.
	got, err := repo.GetByID(ctx, tech.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tech", got.Name)

	// Soft-deleting the referencing post unblocks the delete.
	require.NoError(t, db.Model(post).Update("status", models.PostStatusDeleted).Error)
	require.NoError(t, repo.Delete(ctx, tech.ID))

	_, err = repo.GetByID(ctx, tech.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCategoryRepository_DeleteBlockedByDraftAndPrivate(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db, nil)
	ctx := context.Background()

	for _, status := range []models.PostStatus{models.PostStatusDraft, models.PostStatusPrivate} {
		category := createCategory(t, db, "cat-"+status.String())
		createPost(t, db, "post-"+status.String(), &category.ID, status)

		err := repo.Delete(ctx, category.ID)
		assert.ErrorIs(t, err, ErrInUse, status.String())
	}
}
