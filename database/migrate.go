package database

import (
	"fmt"

	"github.com/yeremiapane/burger-storefront/models"
	"github.com/yeremiapane/burger-storefront/utils"
	"gorm.io/gorm"
)

// AutoMigrate creates the session storage table.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.StorageEntry{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.Info().Println("AutoMigrate completed.")
	return nil
}
