package main

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eventplanner-collab/internal/store"
)

// InitDB connects to postgres and migrates the schema.
func InitDB(log *slog.Logger, cfg DBConfig) (*gorm.DB, error) {
	const op = "main.InitDB"

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: connect: %w", op, err)
	}

	if err := store.Migrate(db); err != nil {
		return nil, fmt.Errorf("%s: migrate: %w", op, err)
	}

	log.Info("database connected and migrated", slog.String("host", cfg.Host), slog.String("name", cfg.Name))

	return db, nil
}
