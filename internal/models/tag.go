package models

import "time"

// Tag labels posts through the post_tags join table.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostTag is a join row between a post and a tag. The composite primary key
// makes the pair naturally unique; the whole set for a post is replaced
// atomically on update.
type PostTag struct {
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	TagID     uint      `gorm:"primaryKey;autoIncrement:false" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
