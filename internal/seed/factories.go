// Package seed creates demo data for development and testing.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateAdmin persists an admin user with the given credentials.
func (f *Factory) CreateAdmin(username, password string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hashed),
		IsAdmin:      true,
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCategory persists a category with the given name, or a generated
// one when name is empty.
func (f *Factory) CreateCategory(name string) (*models.Category, error) {
	if name == "" {
		name = gofakeit.BuzzWord() + " " + gofakeit.HackerNoun()
	}
	category := &models.Category{Name: name}
	if err := f.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// CreateTag persists a tag with the given name, or a generated one when
// name is empty.
func (f *Factory) CreateTag(name string) (*models.Tag, error) {
	if name == "" {
		name = gofakeit.HackerAbbreviation()
	}
	tag := &models.Tag{Name: name}
	if err := f.db.Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// CreatePost persists a sample post in the given category with the given
// tags. Optional override functions may modify the post before saving.
func (f *Factory) CreatePost(category *models.Category, tags []models.Tag, overrides ...func(*models.Post)) (*models.Post, error) {
	cover := fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", gofakeit.UUID())
	post := &models.Post{
		Title:    gofakeit.Sentence(5),
		Content:  gofakeit.Paragraph(3, 4, 8, "\n\n"),
		CoverURL: &cover,
		Status:   models.PostStatusPublished,
	}
	if category != nil {
		post.CategoryID = &category.ID
	}

	// Spread created_at over the last 90 days so lists look lived-in.
	daysBack := f.rand.Intn(90)
	hoursBack := f.rand.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	for _, tag := range tags {
		assignment := &models.PostTag{PostID: post.ID, TagID: tag.ID}
		if err := f.db.Create(assignment).Error; err != nil {
			return nil, err
		}
	}
	return post, nil
}

// CreateMusic persists a sample music track.
func (f *Factory) CreateMusic(overrides ...func(*models.Music)) (*models.Music, error) {
	cover := fmt.Sprintf("https://picsum.photos/seed/track-%s/400/400", gofakeit.UUID())
	track := &models.Music{
		Name:     gofakeit.Sentence(3),
		Author:   gofakeit.Name(),
		MusicURL: fmt.Sprintf("/uploads/music/%s_%d.mp3", gofakeit.UUID(), time.Now().Unix()),
		CoverURL: &cover,
		Status:   models.MusicStatusPublished,
	}

	for _, override := range overrides {
		override(track)
	}

	if err := f.db.Create(track).Error; err != nil {
		return nil, err
	}
	return track, nil
}

// CreateDownload persists a sample download entry.
func (f *Factory) CreateDownload(overrides ...func(*models.Download)) (*models.Download, error) {
	name := gofakeit.AppName() + ".zip"
	download := &models.Download{
		FileName: name,
		FileURL:  fmt.Sprintf("/uploads/downloads/%s_%d.zip", gofakeit.UUID(), time.Now().Unix()),
		FileType: "zip",
		FileSize: int64(gofakeit.Number(10_000, 50_000_000)),
	}

	for _, override := range overrides {
		override(download)
	}

	if err := f.db.Create(download).Error; err != nil {
		return nil, err
	}
	return download, nil
}
