package database

import (
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// AllModels is the registry of every persisted model, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Post{},
		&models.PostTag{},
		&models.Music{},
		&models.Download{},
		&models.About{},
		&models.ChatSession{},
		&models.ChatMessage{},
	}
}

// Migrate runs auto-migration for all registered models and seeds the
// singleton about row if it is missing.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return err
	}
	return ensureAboutRow(db)
}

func ensureAboutRow(db *gorm.DB) error {
	var about models.About
	err := db.First(&about, models.AboutID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(&models.About{
		ID:       models.AboutID,
		Title:    "About",
		Subtitle: "",
		Content:  "",
	}).Error
}
