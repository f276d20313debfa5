package cache

import (
	"fmt"
	"time"
)

// TTLs per key family. List endpoints change more often than single rows.
const (
	PostTTL     = 5 * time.Minute
	PostListTTL = 1 * time.Minute
	TaxonomyTTL = 10 * time.Minute
	AboutTTL    = 30 * time.Minute
)

func PostKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

func PostListKey(page, pageSize int, status string) string {
	return fmt.Sprintf("posts:list:%d:%d:%s", page, pageSize, status)
}

func CategoriesKey() string {
	return "categories:all"
}

func TagsKey() string {
	return "tags:all"
}

func MusicListKey() string {
	return "music:all"
}

func AboutKey() string {
	return "about"
}

// PostPattern matches every post-related key for bulk invalidation after a
// write touches posts or their taxonomy.
func PostPattern() string {
	return "post*"
}
