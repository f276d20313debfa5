package repository

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDownloadRepository_CreateAndList(t *testing.T) {
	db := newTestDB(t)
	repo := NewDownloadRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Download{
		FileName: "report.pdf",
		FileURL:  "/uploads/downloads/a.pdf",
		FileType: "pdf",
		FileSize: 1024,
	}))
	require.NoError(t, repo.Create(ctx, &models.Download{
		FileName: "archive.zip",
		FileURL:  "/uploads/downloads/b.zip",
		FileType: "zip",
		FileSize: 2048,
	}))

	downloads, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, downloads, 2)
}

func TestDownloadRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewDownloadRepository(db)
	ctx := context.Background()

	download := &models.Download{FileName: "a", FileURL: "/uploads/downloads/a.pdf", FileType: "pdf", FileSize: 1}
	require.NoError(t, repo.Create(ctx, download))

	require.NoError(t, repo.Delete(ctx, download.ID))

	_, err := repo.GetByID(ctx, download.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Deleting a missing row reports not found, never a silent success.
	assert.ErrorIs(t, repo.Delete(ctx, download.ID), gorm.ErrRecordNotFound)
}
