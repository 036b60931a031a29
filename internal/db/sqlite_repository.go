package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/udisondev/statcalc/internal/build"
)

// SQLiteBuildRepository implements build.Store on SQLite. JSON columns are
// stored as TEXT and timestamps as RFC 3339 strings.
type SQLiteBuildRepository struct {
	db *sql.DB
}

var _ build.Store = (*SQLiteBuildRepository)(nil)

// NewSQLiteBuildRepository creates a repository over an open, migrated
// database.
func NewSQLiteBuildRepository(db *sql.DB) *SQLiteBuildRepository {
	return &SQLiteBuildRepository{db: db}
}

// Save inserts the build or replaces the existing one with the same name.
func (r *SQLiteBuildRepository) Save(ctx context.Context, b *build.Build) error {
	if err := build.ValidateName(b.Name); err != nil {
		return err
	}
	row, err := encodeBuild(b)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO builds (name, base_stats, sources, monograms, overrides, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			base_stats = excluded.base_stats,
			sources    = excluded.sources,
			monograms  = excluded.monograms,
			overrides  = excluded.overrides,
			updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		row.name, string(row.baseStats), string(row.sources),
		string(row.monograms), string(row.overrides),
		row.updatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving build %q: %w", b.Name, err)
	}
	return nil
}

// Get loads a build by name.
func (r *SQLiteBuildRepository) Get(ctx context.Context, name string) (*build.Build, error) {
	var (
		row     buildRow
		updated string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT name, base_stats, sources, monograms, overrides, updated_at
		 FROM builds WHERE name = ?`, name,
	).Scan(&row.name, &row.baseStats, &row.sources, &row.monograms, &row.overrides, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, build.ErrNotFound
		}
		return nil, fmt.Errorf("querying build %q: %w", name, err)
	}
	if row.updatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("parsing updated_at of build %q: %w", name, err)
	}
	return row.decode()
}

// List returns every build name with its update time, sorted by name.
func (r *SQLiteBuildRepository) List(ctx context.Context) ([]build.Summary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, updated_at FROM builds ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying builds: %w", err)
	}
	defer rows.Close()

	var out []build.Summary
	for rows.Next() {
		var (
			s       build.Summary
			updated string
		)
		if err := rows.Scan(&s.Name, &updated); err != nil {
			return nil, fmt.Errorf("scanning build row: %w", err)
		}
		if s.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("parsing updated_at of build %q: %w", s.Name, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating build rows: %w", err)
	}
	return out, nil
}

// Delete removes a build by name.
func (r *SQLiteBuildRepository) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM builds WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting build %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting build %q: %w", name, err)
	}
	if n == 0 {
		return build.ErrNotFound
	}
	return nil
}
