// cmd/seeder/main.go
package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/unclebandit/crm-backend/internal/config"
	"github.com/unclebandit/crm-backend/internal/db"
	"github.com/unclebandit/crm-backend/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Initialize(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx := context.Background()
	conn, err := db.Open(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer conn.Close()

	if err := db.EnsureSchema(ctx, conn); err != nil {
		logger.Fatal("Failed to create schema", err)
	}

	// customers before addresses: the FK needs the parent rows
	seedFiles := []string{
		filepath.Join(cfg.SeedDir, "customers.sql"),
		filepath.Join(cfg.SeedDir, "addresses.sql"),
	}

	for _, file := range seedFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			logger.Fatal("Failed to read seed file", err, logger.Fields{"file": file})
		}
		if _, err := conn.ExecContext(ctx, string(content)); err != nil {
			logger.Fatal("Failed to execute seed file", err, logger.Fields{"file": file})
		}
		logger.Info("Seeded", logger.Fields{"file": file})
	}

	logger.Info("Database seeding completed successfully!", logger.Fields{"files": len(seedFiles)})
}
