package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

// Verifies the shape of the guarded delete against the Postgres dialect: the
// category row is locked with FOR UPDATE, the reference count runs inside
// the same transaction, and an in-use result rolls back.
func TestCategoryRepository_DeleteLocksRowAndRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCategoryRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "categories" WHERE (.+) FOR UPDATE`).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Tech"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts"`).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInUse)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_DeleteCommitsWhenUnreferenced(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCategoryRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "categories" WHERE (.+) FOR UPDATE`).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Tech"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts"`).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`DELETE FROM "categories"`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 1)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
