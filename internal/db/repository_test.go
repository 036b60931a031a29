package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/statcalc/internal/build"
	"github.com/udisondev/statcalc/internal/db"
	"github.com/udisondev/statcalc/internal/testutil"
)

func stores() map[string]func(t *testing.T) build.Store {
	return map[string]func(t *testing.T) build.Store{
		"sqlite": func(t *testing.T) build.Store {
			return db.NewSQLiteBuildRepository(testutil.SetupSQLite(t))
		},
		"postgres": func(t *testing.T) build.Store {
			return db.NewBuildRepository(testutil.SetupTestDB(t))
		},
	}
}

func TestBuildRepository_RoundTrip(t *testing.T) {
	for name, open := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)

			want := testutil.SampleBuild("glass cannon")
			require.NoError(t, store.Save(ctx, want))

			got, err := store.Get(ctx, "glass cannon")
			require.NoError(t, err)
			assert.Equal(t, want.Name, got.Name)
			assert.Equal(t, want.BaseStats, got.BaseStats)
			assert.Equal(t, want.Sources, got.Sources)
			assert.Equal(t, want.Monograms, got.Monograms)
			assert.Equal(t, want.Overrides, got.Overrides)
			assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updated_at %v != %v", got.UpdatedAt, want.UpdatedAt)
		})
	}
}

func TestBuildRepository_EmptyBuild(t *testing.T) {
	for name, open := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)

			require.NoError(t, store.Save(ctx, &build.Build{Name: "blank", UpdatedAt: time.Now()}))
			got, err := store.Get(ctx, "blank")
			require.NoError(t, err)
			assert.Empty(t, got.BaseStats)
			assert.Empty(t, got.Monograms)
			assert.Empty(t, got.Overrides)
		})
	}
}

func TestBuildRepository_UpsertListDelete(t *testing.T) {
	for name, open := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)

			first := testutil.SampleBuild("b")
			require.NoError(t, store.Save(ctx, first))
			require.NoError(t, store.Save(ctx, testutil.SampleBuild("a")))

			second := testutil.SampleBuild("b")
			second.BaseStats = map[string]float64{"luck": 7}
			second.UpdatedAt = first.UpdatedAt.Add(time.Hour)
			require.NoError(t, store.Save(ctx, second))

			got, err := store.Get(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, map[string]float64{"luck": 7}, got.BaseStats)

			list, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "a", list[0].Name)
			assert.Equal(t, "b", list[1].Name)
			assert.True(t, second.UpdatedAt.Equal(list[1].UpdatedAt))

			require.NoError(t, store.Delete(ctx, "a"))
			assert.ErrorIs(t, store.Delete(ctx, "a"), build.ErrNotFound)
			_, err = store.Get(ctx, "a")
			assert.ErrorIs(t, err, build.ErrNotFound)

			list, err = store.List(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 1)
		})
	}
}

func TestBuildRepository_RejectsBadNames(t *testing.T) {
	for name, open := range stores() {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			err := store.Save(context.Background(), &build.Build{Name: "a/b"})
			assert.ErrorIs(t, err, build.ErrInvalidName)
		})
	}
}

func TestRunSQLiteMigrations_Idempotent(t *testing.T) {
	sqlDB := testutil.SetupSQLite(t)
	require.NoError(t, db.RunSQLiteMigrations(context.Background(), sqlDB))
}
