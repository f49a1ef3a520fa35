package main

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"sentinel/internal/config"
	"sentinel/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal("migration failed", "error", err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	drop := flag.Bool("drop", false, "Drop the blacklist table instead of migrating")
	production := flag.Bool("production", false, "Use production configuration")
	flag.Parse()

	cfg := config.Load(*production, false)
	if err := cfg.Database.Validate(); err != nil {
		return fmt.Errorf("invalid database configuration: %w", err)
	}

	db, err := database.Open(cfg.Database, false, database.WithAutoMigrate(false))
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("error closing database", "error", err)
		}
	}()

	if *drop {
		return database.DropBlacklistTable(db)
	}
	return database.Migrate(db)
}
