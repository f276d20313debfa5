// Command migrate runs the schema migrations and exits.
package main

import (
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/observability"

	"github.com/joho/godotenv"
)

func main() {
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

	logger.Info("migrations applied", "database", cfg.DBName)
}
