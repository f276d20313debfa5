package seed

import (
	"fmt"
	"log/slog"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options controls how much demo data the seeder creates.
type Options struct {
	Categories int
	Tags       int
	Posts      int
	Music      int
	Downloads  int
	AdminUser  string
	AdminPass  string
}

// DefaultOptions returns a sensible demo data set.
func DefaultOptions() Options {
	return Options{
		Categories: 5,
		Tags:       12,
		Posts:      30,
		Music:      8,
		Downloads:  5,
		AdminUser:  "admin",
		AdminPass:  "password123",
	}
}

// Seeder populates the database with demo content.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	logger  *slog.Logger
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, logger *slog.Logger) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db), logger: logger}
}

// ClearAll removes all seedable content. The about row survives because the
// application expects it to exist.
func (s *Seeder) ClearAll() error {
	tables := []interface{}{
		&models.ChatMessage{},
		&models.ChatSession{},
		&models.PostTag{},
		&models.Post{},
		&models.Tag{},
		&models.Category{},
		&models.Music{},
		&models.Download{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", table, err)
		}
	}
	s.logger.Info("cleared existing content")
	return nil
}

// Run seeds the database according to opts.
func (s *Seeder) Run(opts Options) error {
	if _, err := s.factory.CreateAdmin(opts.AdminUser, opts.AdminPass); err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}

	categories := make([]*models.Category, 0, opts.Categories)
	for _, name := range categoryNames(opts.Categories) {
		category, err := s.factory.CreateCategory(name)
		if err != nil {
			return fmt.Errorf("creating category: %w", err)
		}
		categories = append(categories, category)
	}

	tags := make([]models.Tag, 0, opts.Tags)
	for _, name := range tagNames(opts.Tags) {
		tag, err := s.factory.CreateTag(name)
		if err != nil {
			return fmt.Errorf("creating tag: %w", err)
		}
		tags = append(tags, *tag)
	}

	for i := 0; i < opts.Posts; i++ {
		var category *models.Category
		if len(categories) > 0 {
			category = categories[i%len(categories)]
		}
		postTags := pickTags(tags, 1+i%3)
		overrides := []func(*models.Post){}
		// Sprinkle in drafts and private posts so the admin view differs
		// from the public one.
		switch i % 7 {
		case 5:
			overrides = append(overrides, func(p *models.Post) { p.Status = models.PostStatusDraft })
		case 6:
			overrides = append(overrides, func(p *models.Post) { p.Status = models.PostStatusPrivate })
		}
		if _, err := s.factory.CreatePost(category, postTags, overrides...); err != nil {
			return fmt.Errorf("creating post: %w", err)
		}
	}

	for i := 0; i < opts.Music; i++ {
		if _, err := s.factory.CreateMusic(); err != nil {
			return fmt.Errorf("creating music: %w", err)
		}
	}
	for i := 0; i < opts.Downloads; i++ {
		if _, err := s.factory.CreateDownload(); err != nil {
			return fmt.Errorf("creating download: %w", err)
		}
	}

	if err := s.seedAbout(); err != nil {
		return fmt.Errorf("seeding about: %w", err)
	}

	s.logger.Info("seeding complete",
		slog.Int("categories", len(categories)),
		slog.Int("tags", len(tags)),
		slog.Int("posts", opts.Posts),
		slog.Int("music", opts.Music),
		slog.Int("downloads", opts.Downloads),
	)
	return nil
}

func (s *Seeder) seedAbout() error {
	about := models.About{
		ID:       models.AboutID,
		Title:    gofakeit.Name(),
		Subtitle: gofakeit.JobTitle(),
		Content:  gofakeit.Paragraph(2, 4, 10, "\n\n"),
	}
	return s.db.Save(&about).Error
}

func categoryNames(n int) []string {
	curated := []string{"Engineering", "Music", "Travel", "Books", "Life"}
	return padNames(curated, n, func() string { return gofakeit.BuzzWord() + " " + gofakeit.HackerNoun() })
}

func tagNames(n int) []string {
	curated := []string{"go", "rust", "databases", "web", "design", "devops", "ambient", "jazz", "photography", "notes", "reviews", "tools"}
	return padNames(curated, n, gofakeit.HackerAbbreviation)
}

func padNames(curated []string, n int, gen func() string) []string {
	if n <= len(curated) {
		return curated[:n]
	}
	names := append([]string{}, curated...)
	seen := map[string]bool{}
	for _, name := range names {
		seen[name] = true
	}
	for len(names) < n {
		name := gen()
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

func pickTags(tags []models.Tag, n int) []models.Tag {
	if len(tags) == 0 {
		return nil
	}
	if n > len(tags) {
		n = len(tags)
	}
	picked := make([]models.Tag, 0, n)
	start := gofakeit.Number(0, len(tags)-1)
	for i := 0; i < n; i++ {
		picked = append(picked, tags[(start+i)%len(tags)])
	}
	return picked
}
