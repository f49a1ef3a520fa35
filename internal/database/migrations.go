package database

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"sentinel/internal/domain"
)

func defaultMigrations() []any {
	return []any{
		domain.BlacklistEntry{},
	}
}

// Migrate creates or updates the blacklist table and its unique email index.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database: nil connection")
	}
	if err := db.AutoMigrate(defaultMigrations()...); err != nil {
		return fmt.Errorf("database: migrate blacklist: %w", err)
	}
	log.Info("Blacklist table migrated")
	return nil
}

// DropBlacklistTable removes the blacklist table if it exists.
func DropBlacklistTable(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database: nil connection")
	}
	if !db.Migrator().HasTable(&domain.BlacklistEntry{}) {
		log.Info("Blacklist table not present, nothing to drop")
		return nil
	}
	if err := db.Migrator().DropTable(&domain.BlacklistEntry{}); err != nil {
		return fmt.Errorf("database: drop blacklist: %w", err)
	}
	log.Info("Blacklist table dropped")
	return nil
}
