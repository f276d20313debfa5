// Command seed populates the database with demo content.
package main

import (
	"flag"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/observability"
	"inkwell/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Categories, "categories", opts.Categories, "Number of categories to create")
	flag.IntVar(&opts.Tags, "tags", opts.Tags, "Number of tags to create")
	flag.IntVar(&opts.Posts, "posts", opts.Posts, "Number of posts to create")
	flag.IntVar(&opts.Music, "music", opts.Music, "Number of music tracks to create")
	flag.IntVar(&opts.Downloads, "downloads", opts.Downloads, "Number of downloads to create")
	flag.StringVar(&opts.AdminUser, "admin-user", opts.AdminUser, "Admin username")
	flag.StringVar(&opts.AdminPass, "admin-pass", opts.AdminPass, "Admin password")
	shouldClean := flag.Bool("clean", true, "Clean existing content before seeding")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := observability.NewLogger(cfg.Env)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	s := seed.NewSeeder(db, logger)
	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}
	if err := s.Run(opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	logger.Info("seed data ready", "admin_user", opts.AdminUser)
}
