package service

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestCategoryService_CreateValidation(t *testing.T) {
	svc := NewCategoryService(&stubCategoryRepo{})

	_, err := svc.Create(context.Background(), "   ")
	assertCode(t, err, models.CodeValidation)
}

func TestCategoryService_CreateTrimsName(t *testing.T) {
	repo := &stubCategoryRepo{}
	svc := NewCategoryService(repo)

	category, err := svc.Create(context.Background(), "  Tech  ")
	require.NoError(t, err)
	assert.Equal(t, "Tech", category.Name)
}

func TestCategoryService_CreateDuplicateIsConflict(t *testing.T) {
	svc := NewCategoryService(&stubCategoryRepo{createErr: gorm.ErrDuplicatedKey})

	_, err := svc.Create(context.Background(), "Tech")
	assertCode(t, err, models.CodeConflict)
}

func TestCategoryService_DeleteInUseIsConflict(t *testing.T) {
	svc := NewCategoryService(&stubCategoryRepo{deleteErr: repository.ErrInUse})

	err := svc.Delete(context.Background(), 1)
	assertCode(t, err, models.CodeConflict)
}

func TestCategoryService_DeleteMissingIsNotFound(t *testing.T) {
	svc := NewCategoryService(&stubCategoryRepo{})

	err := svc.Delete(context.Background(), 42)
	assertCode(t, err, models.CodeNotFound)
}

func TestTagService_DeleteInUseIsConflict(t *testing.T) {
	db := &stubTagRepo{tags: map[uint]*models.Tag{}}
	svc := NewTagService(db)

	err := svc.Delete(context.Background(), 9)
	assertCode(t, err, models.CodeNotFound)
}

func TestTagService_CreateValidation(t *testing.T) {
	svc := NewTagService(&stubTagRepo{})

	_, err := svc.Create(context.Background(), "")
	assertCode(t, err, models.CodeValidation)
}
