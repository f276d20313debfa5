package models

import (
	"time"

	"gorm.io/gorm"
)

// MusicStatus mirrors PostStatus for the music library, which only ever
// publishes or soft-deletes.
type MusicStatus int

const (
	MusicStatusPublished MusicStatus = 1
	MusicStatusDeleted   MusicStatus = 2
)

// Valid reports whether s is a known music status.
func (s MusicStatus) Valid() bool {
	return s == MusicStatusPublished || s == MusicStatusDeleted
}

// Music is an uploaded track. MusicURL points at the stored audio file and
// CoverURL at an optional cover image; both files' lifecycles are tied to
// the record's.
type Music struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Name      string      `gorm:"column:music_name;not null" json:"music_name"`
	Author    string      `gorm:"column:music_author;not null" json:"music_author"`
	MusicURL  string      `gorm:"not null" json:"music_url"`
	CoverURL  *string     `gorm:"column:music_cover_url" json:"music_cover_url,omitempty"`
	Status    MusicStatus `gorm:"not null;default:1;index" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TableName keeps the singular table name used by the original schema.
func (Music) TableName() string { return "music" }

// ActiveMusic is a GORM scope excluding soft-deleted tracks.
func ActiveMusic(db *gorm.DB) *gorm.DB {
	return db.Where("music.status <> ?", MusicStatusDeleted)
}
