package models

import "time"

// Category groups posts. The unique index on name is the authoritative
// uniqueness check: inserts racing on the same name lose at the constraint,
// not at an application-level pre-check.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
