package db

import (
	"fmt"

	types "github.com/OwaisIslam/living-real/internal/domain"
	"gorm.io/gorm"
)

// AutoMigrateAll registers the occupant join model and migrates every table.
func AutoMigrateAll(db *gorm.DB) error {
	if err := db.SetupJoinTable(&types.Property{}, "Occupants", &types.PropertyOccupant{}); err != nil {
		return fmt.Errorf("setup occupant join table: %w", err)
	}
	return db.AutoMigrate(
		&types.User{},
		&types.Property{},
		&types.PropertyOccupant{},
	)
}
