// Package migrations creates the PixelNote schema.
package migrations

import (
	"fmt"

	"pixelnote/models"

	"gorm.io/gorm"
)

// Run migrates users, revoked tokens and one table per item variant.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.RevokedToken{}); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}

	for _, v := range models.Variants() {
		table := v.Collection()
		if err := db.Table(table).AutoMigrate(&models.Item{}); err != nil {
			return fmt.Errorf("migrate %s: %w", table, err)
		}
		// Lists are always filtered by owner and sorted by creation time
		index := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_owner_created ON %s (user_id, created_at)", table, table)
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("index %s: %w", table, err)
		}
	}
	return nil
}
