// Package monogram maps equipped monograms to stat overrides.
package monogram

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/statcalc/internal/stats"
)

//go:embed catalog.yaml
var catalogYAML []byte

var (
	ErrEmptyID      = errors.New("empty monogram id")
	ErrEmptyEffect  = errors.New("effect has no stat")
	ErrUnknownStat  = errors.New("effect targets an unknown stat")
	ErrNotDerived   = errors.New("effect targets an input stat")
	ErrInvalidPatch = errors.New("effect config does not resolve")
)

// Effect is one stat override applied while the monogram is equipped.
type Effect struct {
	Stat   string      `yaml:"stat" json:"stat"`
	Config stats.Patch `yaml:"config" json:"config"`
}

// Monogram is a catalog entry. A monogram without effects is recognised but
// changes nothing.
type Monogram struct {
	ID          string   `yaml:"-" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Slot        string   `yaml:"slot,omitempty" json:"slot,omitempty"`
	Effects     []Effect `yaml:"effects,omitempty" json:"effects,omitempty"`
}

// Catalog is an immutable set of monograms keyed by id.
type Catalog struct {
	byID map[string]*Monogram
	ids  []string
}

// LoadCatalog parses a YAML catalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	raw := make(map[string]*Monogram)
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding monogram catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]*Monogram, len(raw))}
	for id, m := range raw {
		if strings.TrimSpace(id) == "" {
			return nil, ErrEmptyID
		}
		if m == nil {
			m = &Monogram{}
		}
		m.ID = id
		if m.Name == "" {
			m.Name = id
		}
		for i, e := range m.Effects {
			if e.Stat == "" {
				return nil, fmt.Errorf("monogram %s effect #%d: %w", id, i, ErrEmptyEffect)
			}
		}
		c.byID[id] = m
	}
	c.ids = slices.Sorted(maps.Keys(c.byID))
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the embedded catalog. It panics if the embedded
// file does not parse.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		c, err := LoadCatalog(bytes.NewReader(catalogYAML))
		if err != nil {
			panic(fmt.Sprintf("embedded monogram catalog: %v", err))
		}
		defaultCatalog = c
		slog.Info("monogram catalog loaded", "monograms", len(c.ids))
	})
	return defaultCatalog
}

// Get returns the monogram with the given id.
func (c *Catalog) Get(id string) (*Monogram, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// IDs returns every monogram id, sorted.
func (c *Catalog) IDs() []string {
	return slices.Clone(c.ids)
}

// Len returns the number of monograms.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// ForStat returns the ids of monograms with an effect on statID, sorted.
func (c *Catalog) ForStat(statID string) []string {
	var out []string
	for _, id := range c.ids {
		for _, e := range c.byID[id].Effects {
			if e.Stat == statID {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

// Summary returns "Name: description", the bare name without a description,
// or "" for an unknown id.
func (c *Catalog) Summary(id string) string {
	m, ok := c.byID[id]
	if !ok {
		return ""
	}
	if m.Description == "" {
		return m.Name
	}
	return m.Name + ": " + m.Description
}

// Validate checks every effect against reg: the stat must be derived and the
// config must resolve against its defaults.
func (c *Catalog) Validate(reg *stats.Registry) error {
	var errs []error
	for _, id := range c.ids {
		for _, e := range c.byID[id].Effects {
			def, ok := reg.Get(e.Stat)
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("monogram %s: %w: %s", id, ErrUnknownStat, e.Stat))
			case def.IsBase():
				errs = append(errs, fmt.Errorf("monogram %s: %w: %s", id, ErrNotDerived, e.Stat))
			default:
				if _, err := stats.ResolveConfig(def, e.Config); err != nil {
					errs = append(errs, fmt.Errorf("monogram %s: %w: %w", id, ErrInvalidPatch, err))
				}
			}
		}
	}
	return errors.Join(errs...)
}
