package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/statcalc/internal/db/migrations"
)

// RunMigrations runs the postgres goose migrations on the given DSN.
func RunMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	return migrate(ctx, sqlDB, "postgres", "postgres")
}

// RunSQLiteMigrations runs the sqlite goose migrations on an open database.
func RunSQLiteMigrations(ctx context.Context, sqlDB *sql.DB) error {
	return migrate(ctx, sqlDB, "sqlite3", "sqlite")
}

func migrate(ctx context.Context, sqlDB *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
