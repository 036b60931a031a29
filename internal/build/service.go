package build

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/statcalc/internal/monogram"
	"github.com/udisondev/statcalc/internal/stats"
)

// Evaluation is the outcome of evaluating one build.
type Evaluation struct {
	Name             string          `json:"name,omitempty"`
	Result           *stats.Result   `json:"result"`
	Overrides        stats.Overrides `json:"overrides,omitempty"`
	UnknownMonograms []string        `json:"unknown_monograms,omitempty"`
}

// Service evaluates builds and manages the build store.
type Service struct {
	engine  *stats.Engine
	catalog *monogram.Catalog
	store   Store
	now     func() time.Time
}

// NewService wires the service. store may be nil for evaluation-only use;
// the CRUD methods then fail with ErrNotFound.
func NewService(engine *stats.Engine, catalog *monogram.Catalog, store Store) *Service {
	return &Service{
		engine:  engine,
		catalog: catalog,
		store:   store,
		now:     time.Now,
	}
}

// Registry returns the registry behind the engine.
func (s *Service) Registry() *stats.Registry {
	return s.engine.Registry()
}

// Catalog returns the monogram catalog.
func (s *Service) Catalog() *monogram.Catalog {
	return s.catalog
}

// Overrides returns the effective overrides for b: monogram effects first,
// manual overrides merged over them.
func (s *Service) Overrides(b *Build) (stats.Overrides, []string) {
	fromMonograms, unknown := s.catalog.BuildOverrides(b.Monograms)
	return fromMonograms.Merge(b.Overrides), unknown
}

// Evaluate runs the engine over b. Invalid overrides are reported as
// ErrInvalid wrapping the engine error.
func (s *Service) Evaluate(ctx context.Context, b *Build) (*Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: nil build", ErrInvalid)
	}
	overrides, unknown := s.Overrides(b)
	res, err := s.engine.CalculateDetailed(b.BaseStats, overrides, b.Sources)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalid, b.Name, err)
	}
	return &Evaluation{
		Name:             b.Name,
		Result:           res,
		Overrides:        overrides,
		UnknownMonograms: unknown,
	}, nil
}

// EvaluateMany evaluates builds concurrently. Results keep the input order;
// the first failure cancels the rest.
func (s *Service) EvaluateMany(ctx context.Context, builds []*Build) ([]*Evaluation, error) {
	out := make([]*Evaluation, len(builds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, b := range builds {
		g.Go(func() error {
			ev, err := s.Evaluate(gctx, b)
			if err != nil {
				return err
			}
			out[i] = ev
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Chain returns the dependency chain of a registered stat.
func (s *Service) Chain(id string) ([]string, error) {
	reg := s.engine.Registry()
	if _, ok := reg.Get(id); !ok {
		return nil, fmt.Errorf("%w: %s", stats.ErrUnknownStat, id)
	}
	return reg.DependencyChain(id), nil
}

// Save validates b and stores it with a fresh UpdatedAt.
func (s *Service) Save(ctx context.Context, b *Build) error {
	if s.store == nil {
		return fmt.Errorf("saving %q: no store configured", b.Name)
	}
	if err := ValidateName(b.Name); err != nil {
		return err
	}
	if err := s.engine.Registry().ValidateOverrides(b.Overrides); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalid, b.Name, err)
	}
	b.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, b); err != nil {
		return fmt.Errorf("saving build %q: %w", b.Name, err)
	}
	slog.Info("build saved", "name", b.Name, "monograms", len(b.Monograms), "overrides", len(b.Overrides))
	return nil
}

// Get loads a stored build.
func (s *Service) Get(ctx context.Context, name string) (*Build, error) {
	if s.store == nil {
		return nil, ErrNotFound
	}
	return s.store.Get(ctx, name)
}

// List lists stored builds.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.List(ctx)
}

// Delete removes a stored build.
func (s *Service) Delete(ctx context.Context, name string) error {
	if s.store == nil {
		return ErrNotFound
	}
	if err := s.store.Delete(ctx, name); err != nil {
		return err
	}
	slog.Info("build deleted", "name", name)
	return nil
}

// EvaluateSaved loads a stored build and evaluates it.
func (s *Service) EvaluateSaved(ctx context.Context, name string) (*Evaluation, error) {
	b, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.Evaluate(ctx, b)
}
