// Package repository provides data access layer implementations for the
// application. Repositories return database errors untouched; the sentinel
// errors below carry the domain outcomes that only the transaction itself
// can observe, and the service layer translates both into typed API errors.
package repository

import "errors"

var (
	// ErrInUse is returned when a delete is blocked by active referrers.
	ErrInUse = errors.New("row is referenced by active records")

	// ErrUnknownTags is returned when a tag assignment names missing tags.
	ErrUnknownTags = errors.New("one or more tags do not exist")
)
