// Package models contains data structures for the application's domain models.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// PostStatus is the lifecycle state of a post. Deleted is a soft-delete
// marker: the row stays in the table and is filtered out of active queries.
type PostStatus int

const (
	PostStatusDraft     PostStatus = 0
	PostStatusPublished PostStatus = 1
	PostStatusDeleted   PostStatus = 2
	PostStatusPrivate   PostStatus = 3
)

// Valid reports whether s is a known post status.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusDeleted, PostStatusPrivate:
		return true
	}
	return false
}

// Active reports whether a post in this status is visible to normal queries.
func (s PostStatus) Active() bool {
	return s != PostStatusDeleted
}

func (s PostStatus) String() string {
	switch s {
	case PostStatusDraft:
		return "draft"
	case PostStatusPublished:
		return "published"
	case PostStatusDeleted:
		return "deleted"
	case PostStatusPrivate:
		return "private"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// URLList is a list of URLs persisted as a JSON array in a text column.
type URLList []string

// Value implements driver.Valuer.
func (l URLList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *URLList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for URLList", value)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// Post is a blog post. CategoryID is a nullable foreign key; deletion is a
// status flip, so CoverURL and PostImages survive in the row for audit.
type Post struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"not null" json:"title"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	CoverURL   *string    `json:"cover_url,omitempty"`
	CategoryID *uint      `gorm:"index" json:"category_id,omitempty"`
	Category   *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Status     PostStatus `gorm:"not null;default:0;index" json:"status"`
	PostImages URLList    `gorm:"type:text" json:"post_images,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// PostWithDetails is a post enriched with its category name and tags.
type PostWithDetails struct {
	Post
	CategoryName *string `gorm:"->" json:"category_name,omitempty"`
	Tags         []Tag   `gorm:"-" json:"tags"`
}

// ActivePosts is a GORM scope excluding soft-deleted posts. Every read path
// that must hide deleted rows goes through this scope.
func ActivePosts(db *gorm.DB) *gorm.DB {
	return db.Where("posts.status <> ?", PostStatusDeleted)
}
