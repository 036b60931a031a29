package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/statcalc/internal/build"
)

// BuildRepository implements build.Store on PostgreSQL.
type BuildRepository struct {
	pool *pgxpool.Pool
}

var _ build.Store = (*BuildRepository)(nil)

// NewBuildRepository creates a repository over pool.
func NewBuildRepository(pool *pgxpool.Pool) *BuildRepository {
	return &BuildRepository{pool: pool}
}

// Save inserts the build or replaces the existing one with the same name.
func (r *BuildRepository) Save(ctx context.Context, b *build.Build) error {
	if err := build.ValidateName(b.Name); err != nil {
		return err
	}
	row, err := encodeBuild(b)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO builds (name, base_stats, sources, monograms, overrides, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE SET
			base_stats = EXCLUDED.base_stats,
			sources    = EXCLUDED.sources,
			monograms  = EXCLUDED.monograms,
			overrides  = EXCLUDED.overrides,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.pool.Exec(ctx, query,
		row.name, string(row.baseStats), string(row.sources),
		string(row.monograms), string(row.overrides), row.updatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving build %q: %w", b.Name, err)
	}
	return nil
}

// Get loads a build by name.
func (r *BuildRepository) Get(ctx context.Context, name string) (*build.Build, error) {
	var row buildRow
	err := r.pool.QueryRow(ctx,
		`SELECT name, base_stats, sources, monograms, overrides, updated_at
		 FROM builds WHERE name = $1`, name,
	).Scan(&row.name, &row.baseStats, &row.sources, &row.monograms, &row.overrides, &row.updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, build.ErrNotFound
		}
		return nil, fmt.Errorf("querying build %q: %w", name, err)
	}
	row.updatedAt = row.updatedAt.UTC()
	return row.decode()
}

// List returns every build name with its update time, sorted by name.
func (r *BuildRepository) List(ctx context.Context) ([]build.Summary, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, updated_at FROM builds ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying builds: %w", err)
	}
	defer rows.Close()

	var out []build.Summary
	for rows.Next() {
		var s build.Summary
		if err := rows.Scan(&s.Name, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning build row: %w", err)
		}
		s.UpdatedAt = s.UpdatedAt.UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating build rows: %w", err)
	}
	return out, nil
}

// Delete removes a build by name.
func (r *BuildRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM builds WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting build %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return build.ErrNotFound
	}
	return nil
}
