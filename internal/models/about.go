package models

import "time"

// AboutID is the fixed primary key of the single about-page row.
const AboutID uint = 1

// About is the singleton about-page content.
type About struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Subtitle  string    `gorm:"not null" json:"subtitle"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	PhotoURL  *string   `json:"photo_url,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the singular table name used by the original schema.
func (About) TableName() string { return "about" }
