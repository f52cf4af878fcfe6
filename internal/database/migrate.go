package database

import (
	"github.com/moesamiii/production/internal/models"

	"gorm.io/gorm"
)

// Migrate creates or updates the portal tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Deliverable{},
		&models.ChatMessage{},
	)
}
