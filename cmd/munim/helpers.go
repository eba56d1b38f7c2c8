package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/munimhq/munim/internal/config"
	"github.com/munimhq/munim/internal/storage"
)

// initStorage opens the database and runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath(viper.GetString("database.path"))

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// companyID returns the configured company identifier.
func companyID() string {
	if v := viper.GetString("company.id"); v != "" {
		return v
	}
	return "default"
}

// companyName returns the configured company display name.
func companyName() string {
	if v := viper.GetString("company.name"); v != "" {
		return v
	}
	return "My Company"
}

func logger() *slog.Logger {
	return slog.Default()
}
