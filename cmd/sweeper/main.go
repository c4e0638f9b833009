package main

import (
	"context"
	"log"

	"blii-be/internal/config"
	"blii-be/internal/pkg/logger"
	"blii-be/internal/repository/unitofwork"
	"blii-be/internal/service"
	"blii-be/pkg/database"
	"blii-be/pkg/storage"
)

// Purges trashed items past the retention window. Meant to run from cron.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	uowFactory := unitofwork.NewRepositoryFactory(db)
	uploader := storage.NewLocalUploader(cfg.Storage.UploadDir, cfg.App.BaseURL)

	itemService := service.NewItemService(uowFactory, nil, uploader, nil, nil, sysLogger)

	purged, err := itemService.SweepTrash(context.Background(), cfg.Storage.TrashRetentionDays)
	if err != nil {
		log.Fatalf("Error: Trash sweep failed: %v", err)
	}

	log.Printf("✅ Trash sweep complete: %d item(s) purged (retention %d days)", purged, cfg.Storage.TrashRetentionDays)
}
