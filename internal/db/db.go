// Package db persists builds in PostgreSQL or SQLite.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"

	"github.com/udisondev/statcalc/internal/build"
)

// DB wraps a pgx connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying pgx pool.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// OpenSQLite opens or creates the SQLite database at path and applies the
// connection pragmas. Migrations are run separately with RunSQLiteMigrations.
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}
	return sqlDB, nil
}

// buildRow is a build with its JSON columns already encoded.
type buildRow struct {
	name      string
	baseStats []byte
	sources   []byte
	monograms []byte
	overrides []byte
	updatedAt time.Time
}

func encodeBuild(b *build.Build) (buildRow, error) {
	row := buildRow{name: b.Name, updatedAt: b.UpdatedAt}
	cols := []struct {
		dst   *[]byte
		value any
		empty string
	}{
		{&row.baseStats, b.BaseStats, "{}"},
		{&row.sources, b.Sources, "{}"},
		{&row.monograms, b.Monograms, "[]"},
		{&row.overrides, b.Overrides, "{}"},
	}
	for _, c := range cols {
		data, err := json.Marshal(c.value)
		if err != nil {
			return buildRow{}, fmt.Errorf("encoding build %q: %w", b.Name, err)
		}
		if string(data) == "null" {
			data = []byte(c.empty)
		}
		*c.dst = data
	}
	return row, nil
}

func (row buildRow) decode() (*build.Build, error) {
	b := &build.Build{Name: row.name, UpdatedAt: row.updatedAt}
	cols := []struct {
		src []byte
		dst any
	}{
		{row.baseStats, &b.BaseStats},
		{row.sources, &b.Sources},
		{row.monograms, &b.Monograms},
		{row.overrides, &b.Overrides},
	}
	for _, c := range cols {
		if err := json.Unmarshal(c.src, c.dst); err != nil {
			return nil, fmt.Errorf("decoding build %q: %w", row.name, err)
		}
	}
	return b, nil
}
