// Command seed applies migrations and loads the demo dataset.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pressly/goose/v3"

	"tollgate/internal/platform/config"
	"tollgate/internal/platform/logger"
	"tollgate/internal/platform/postgres"
	"tollgate/internal/seed"
	"tollgate/migrations"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg.PostgresURL); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
	log.Info("done")
}

func run(postgresURL string) error {
	ctx := context.Background()

	db, err := postgres.Open(ctx, postgresURL)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return seed.Run(ctx, db, logger.New())
}
