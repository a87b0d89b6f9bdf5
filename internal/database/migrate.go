package database

import (
	"glimpse/internal/models"

	"gorm.io/gorm"
)

// Migrate applies the schema for all persisted models. The follow_edges table
// carries a composite unique index on (follower_id, followed_id); inserts that
// lose a follow race surface as unique violations rather than duplicate rows.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.FollowEdge{},
		&models.RefreshToken{},
	)
}
