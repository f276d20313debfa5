// Package service contains the business logic between HTTP handlers and
// repositories. Services validate input, translate database errors into
// typed API errors, and own the ordering between database commits and file
// storage side effects.
package service

import (
	"errors"
	"fmt"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

// translateDBError maps database and repository sentinel errors onto the API
// error taxonomy. Errors that are already typed pass through unchanged.
func translateDBError(err error, resource string, id interface{}) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.NewConflictError(fmt.Sprintf("%s with this name already exists", resource))
	case errors.Is(err, repository.ErrInUse):
		return models.NewConflictError(fmt.Sprintf("cannot delete %s: still in use", resource))
	case errors.Is(err, repository.ErrUnknownTags):
		return models.NewValidationError("one or more tags do not exist")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return models.NewValidationError("referenced record does not exist")
	default:
		return models.NewInternalError(err)
	}
}
