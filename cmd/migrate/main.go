package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pageza/cooking-assistant/backend/config"
	"github.com/pageza/cooking-assistant/backend/internal/database"
	"github.com/pageza/cooking-assistant/backend/internal/logging"
	"github.com/pageza/cooking-assistant/backend/internal/store"
)

func main() {
	importDir := flag.String("import", "", "Copy users.json and recipes/ from this data directory into the database")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if !cfg.UsesDatabase() {
		log.Fatal("STORAGE_DRIVER must be sqlite or postgres to run migrations")
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, JSON: cfg.Env.IsProduction()})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("schema is up to date")

	if *importDir == "" {
		return
	}

	stats, err := store.ImportFileData(
		context.Background(),
		store.NewFileUserStore(filepath.Join(*importDir, "users.json")),
		store.NewFileArchive(filepath.Join(*importDir, "recipes"), logger),
		store.NewGormUserStore(db),
		store.NewGormArchive(db),
		logger,
	)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}
	logger.Info("import complete",
		zap.Int("users", stats.Users),
		zap.Int("skipped_users", stats.SkippedUsers),
		zap.Int("entries", stats.Entries),
		zap.Int("skipped_entries", stats.SkippedEntries))
}
