package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/udisondev/statcalc/internal/db"
)

// SetupTestDB starts a PostgreSQL testcontainer, applies migrations and
// returns a pool. Skipped with -short. Everything is cleaned up when the
// test ends.
func SetupTestDB(tb testing.TB) *pgxpool.Pool {
	tb.Helper()
	if testing.Short() {
		tb.Skip("postgres testcontainer skipped in -short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		tb.Fatalf("starting postgres container: %v", err)
	}
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			tb.Logf("terminating postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("getting connection string: %v", err)
	}
	if err := db.RunMigrations(ctx, dsn); err != nil {
		tb.Fatalf("running migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		tb.Fatalf("connecting to test db: %v", err)
	}
	tb.Cleanup(pool.Close)
	return pool
}

// SetupSQLite opens a migrated SQLite database in the test's temp dir.
func SetupSQLite(tb testing.TB) *sql.DB {
	tb.Helper()

	sqlDB, err := db.OpenSQLite(filepath.Join(tb.TempDir(), "builds.db"))
	if err != nil {
		tb.Fatalf("opening sqlite: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.RunSQLiteMigrations(context.Background(), sqlDB); err != nil {
		tb.Fatalf("running sqlite migrations: %v", err)
	}
	return sqlDB
}
