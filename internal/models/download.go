package models

import "time"

// Download is a file offered for download. Unlike posts and music it is
// hard-deleted; the stored file is removed best-effort alongside the row.
type Download struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FileName  string    `gorm:"not null" json:"file_name"`
	FileURL   string    `gorm:"not null" json:"file_url"`
	FileType  string    `gorm:"not null" json:"file_type"`
	FileSize  int64     `gorm:"not null" json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
