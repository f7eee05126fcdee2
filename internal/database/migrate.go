package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/cooking-assistant/backend/internal/models"
)

// RunMigrations creates or updates the users and recipe_entries tables
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.RecipeEntry{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
