package main

// Run database migrations:
//   go run ./cmd/migrate up

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"medreport/internal/shared/config"
	"medreport/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()

	app := &cli.Command{
		Name:  "migrate",
		Usage: "Session slot database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Sources: cli.EnvVars("DATABASE_URL"),
				Value:   cfg.DatabaseURL,
				Usage:   "PostgreSQL connection string",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: withDB(func(ctx context.Context, sqlDB *sql.DB) error {
					if err := db.RunMigrations(ctx, sqlDB); err != nil {
						return fmt.Errorf("failed to run migrations: %w", err)
					}
					fmt.Println("Migrations completed successfully")
					return nil
				}),
			},
			{
				Name:  "down",
				Usage: "Roll back the last migration",
				Action: withDB(func(ctx context.Context, sqlDB *sql.DB) error {
					if err := db.RollbackMigration(ctx, sqlDB); err != nil {
						return fmt.Errorf("failed to roll back migration: %w", err)
					}
					fmt.Println("Migration rolled back successfully")
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "Show migration status",
				Action: withDB(func(ctx context.Context, sqlDB *sql.DB) error {
					return db.MigrationStatus(ctx, sqlDB)
				}),
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Printf("migrate: %v", err)
		os.Exit(1)
	}
}

func withDB(fn func(ctx context.Context, sqlDB *sql.DB) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		databaseURL := cmd.String("database-url")
		if databaseURL == "" {
			return fmt.Errorf("database-url is required (set via --database-url or DATABASE_URL env var)")
		}
		opts := db.MigrateOptions().WithEnv()
		sqlDB, err := db.Connect(ctx, databaseURL, opts)
		if err != nil {
			return fmt.Errorf("failed to connect database: %w", err)
		}
		defer sqlDB.Close()
		return fn(ctx, sqlDB)
	}
}
