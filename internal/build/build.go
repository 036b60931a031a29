// Package build stores named character builds and evaluates them.
package build

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/udisondev/statcalc/internal/monogram"
	"github.com/udisondev/statcalc/internal/stats"
)

const maxNameLen = 64

var (
	ErrNotFound    = errors.New("build not found")
	ErrInvalidName = errors.New("invalid build name")
	ErrInvalid     = errors.New("invalid build")
)

// Build is everything needed to reproduce one evaluation: the raw input
// totals, where they came from, the equipped monograms and any manual
// overrides applied on top of the monogram effects.
type Build struct {
	Name      string              `json:"name" yaml:"name"`
	BaseStats map[string]float64  `json:"base_stats" yaml:"base_stats"`
	Sources   stats.SourceIndex   `json:"sources,omitempty" yaml:"sources,omitempty"`
	Monograms []monogram.Equipped `json:"monograms,omitempty" yaml:"monograms,omitempty"`
	Overrides stats.Overrides     `json:"overrides,omitempty" yaml:"overrides,omitempty"`
	UpdatedAt time.Time           `json:"updated_at" yaml:"updated_at,omitempty"`
}

// Summary is a listing entry.
type Summary struct {
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidateName rejects empty, overlong or path-like names.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case len(name) > maxNameLen:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidName, maxNameLen)
	case strings.ContainsAny(name, "/\\"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// Store persists builds by name.
type Store interface {
	// Save inserts or replaces the build with b.Name.
	Save(ctx context.Context, b *Build) error
	// Get returns ErrNotFound when no build has the name.
	Get(ctx context.Context, name string) (*Build, error)
	// List returns every build, sorted by name.
	List(ctx context.Context) ([]Summary, error)
	// Delete returns ErrNotFound when no build has the name.
	Delete(ctx context.Context, name string) error
}

func (b *Build) clone() *Build {
	out := *b
	out.BaseStats = maps.Clone(b.BaseStats)
	if b.Sources != nil {
		out.Sources = make(stats.SourceIndex, len(b.Sources))
		for id, src := range b.Sources {
			out.Sources[id] = slices.Clone(src)
		}
	}
	out.Monograms = slices.Clone(b.Monograms)
	if b.Overrides != nil {
		out.Overrides = stats.Overrides{}.Merge(b.Overrides)
	}
	return &out
}
