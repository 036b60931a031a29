package stats

import (
	"fmt"
	"slices"
)

// sourceStatKey is the text parameter that selects which stat a formula reads.
const sourceStatKey = "sourceStat"

// Registry is an immutable, validated table of stat definitions.
// It is safe for concurrent use.
type Registry struct {
	defs  []*Definition
	byID  map[string]*Definition
	index map[string]int
	order []*Definition
}

// NewRegistry validates defs and builds the registry. Definitions are copied;
// the caller's slice may be reused.
//
// Validation covers unique ids, layer and category ranges, compute presence,
// declared dependency order and a read probe that runs every compute once
// against a recording reader to catch reads missing from Deps.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{
		defs:  make([]*Definition, 0, len(defs)),
		byID:  make(map[string]*Definition, len(defs)),
		index: make(map[string]int, len(defs)),
	}

	for i := range defs {
		def := defs[i]
		if def.ID == "" {
			return nil, fmt.Errorf("stat #%d: empty id", i)
		}
		if _, dup := r.byID[def.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStat, def.ID)
		}
		if !def.Layer.Valid() {
			return nil, fmt.Errorf("%w: %s has layer %d", ErrInvalidLayer, def.ID, int(def.Layer))
		}
		if !def.Category.Valid() {
			return nil, fmt.Errorf("%w: %s has category %q", ErrInvalidCategory, def.ID, def.Category)
		}
		if def.IsBase() && def.Compute != nil {
			return nil, fmt.Errorf("%w: %s", ErrBaseCompute, def.ID)
		}
		if !def.IsBase() && def.Compute == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingCompute, def.ID)
		}

		def.Deps = slices.Clone(def.Deps)
		def.Defaults = def.Defaults.Clone()
		r.defs = append(r.defs, &def)
		r.byID[def.ID] = &def
		r.index[def.ID] = i
	}

	for _, def := range r.defs {
		if err := r.checkDeps(def); err != nil {
			return nil, err
		}
		if err := r.checkChoices(def); err != nil {
			return nil, err
		}
		if err := probeReads(def); err != nil {
			return nil, err
		}
	}

	r.order = r.buildOrder()
	return r, nil
}

// MustRegistry is NewRegistry that panics on an authoring defect.
func MustRegistry(defs []Definition) *Registry {
	r, err := NewRegistry(defs)
	if err != nil {
		panic(fmt.Sprintf("stats registry: %v", err))
	}
	return r
}

// checkDeps ensures every registered dependency is evaluated before def.
// Unregistered ids are raw inputs and always available.
func (r *Registry) checkDeps(def *Definition) error {
	for _, dep := range def.Deps {
		if dep == def.ID {
			return fmt.Errorf("%w: %s depends on itself", ErrForwardDependency, def.ID)
		}
		other, ok := r.byID[dep]
		if !ok || other.IsBase() {
			continue
		}
		if def.IsBase() {
			return fmt.Errorf("%w: base stat %s depends on %s", ErrForwardDependency, def.ID, dep)
		}
		switch {
		case other.Layer < def.Layer:
		case other.Layer == def.Layer && r.index[dep] < r.index[def.ID]:
		default:
			return fmt.Errorf("%w: %s (%s) reads %s (%s)",
				ErrForwardDependency, def.ID, def.Layer, dep, other.Layer)
		}
	}
	return nil
}

func (r *Registry) checkChoices(def *Definition) error {
	for key, choices := range def.Choices {
		if _, ok := def.Defaults.Text[key]; !ok {
			return fmt.Errorf("%w: %s restricts undeclared parameter %q", ErrInvalidChoice, def.ID, key)
		}
		if !slices.Contains(choices, def.Defaults.Text[key]) {
			return fmt.Errorf("%w: %s default %s=%q is not a choice",
				ErrInvalidChoice, def.ID, key, def.Defaults.Text[key])
		}
		if key != sourceStatKey {
			continue
		}
		for _, c := range choices {
			if !slices.Contains(def.Deps, c) {
				return fmt.Errorf("%w: %s source %q", ErrInvalidChoice, def.ID, c)
			}
		}
	}
	return nil
}

// recordingReader returns 1 for every id and remembers what was read.
type recordingReader struct {
	reads map[string]struct{}
}

func (rr *recordingReader) Get(id string) float64 {
	rr.reads[id] = struct{}{}
	return 1
}

// probeReads runs def.Compute with the formula enabled, once for the
// defaults and once per text choice, and fails on any read outside Deps.
func probeReads(def *Definition) error {
	if def.Compute == nil {
		return nil
	}

	base := def.Defaults.Clone()
	base.Enabled = true
	configs := []Config{base}
	for key, choices := range def.Choices {
		for _, c := range choices {
			cfg := base.Clone()
			cfg.Text[key] = c
			configs = append(configs, cfg)
		}
	}

	for _, cfg := range configs {
		rr := &recordingReader{reads: make(map[string]struct{})}
		def.Compute(rr, rr, cfg)
		for id := range rr.reads {
			if !slices.Contains(def.Deps, id) {
				return fmt.Errorf("%w: %s reads %s", ErrUndeclaredRead, def.ID, id)
			}
		}
	}
	return nil
}

func (r *Registry) buildOrder() []*Definition {
	byLayer := r.StatsByLayer()
	order := make([]*Definition, 0, len(r.defs))
	for _, layer := range Layers() {
		order = append(order, byLayer[layer]...)
	}
	return order
}

// Get returns the definition with the given id.
func (r *Registry) Get(id string) (*Definition, bool) {
	def, ok := r.byID[id]
	return def, ok
}

// Len returns the number of definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

// IsDerived reports whether id is a registered stat with a compute step.
func (r *Registry) IsDerived(id string) bool {
	def, ok := r.byID[id]
	return ok && !def.IsBase()
}

// Definitions returns all definitions in declaration order.
func (r *Registry) Definitions() []*Definition {
	return slices.Clone(r.defs)
}

// StatsByLayer partitions the registry by layer, keeping declaration order
// inside each bucket.
func (r *Registry) StatsByLayer() map[Layer][]*Definition {
	out := make(map[Layer][]*Definition, layerCount)
	for _, def := range r.defs {
		out[def.Layer] = append(out[def.Layer], def)
	}
	return out
}

// CalculationOrder returns the definitions sorted by (layer, declaration
// index). Every stat appears after everything it depends on.
func (r *Registry) CalculationOrder() []*Definition {
	return slices.Clone(r.order)
}

// DependencyChain returns the ids that must be evaluated to produce id, in
// evaluation order, ending with id. Unknown ids and inputs without
// dependencies yield [id]. Nothing is computed.
func (r *Registry) DependencyChain(id string) []string {
	visited := make(map[string]struct{})
	var chain []string

	var walk func(string)
	walk = func(cur string) {
		if _, seen := visited[cur]; seen {
			return
		}
		visited[cur] = struct{}{}
		if def, ok := r.byID[cur]; ok {
			for _, dep := range def.Deps {
				walk(dep)
			}
		}
		chain = append(chain, cur)
	}
	walk(id)

	return chain
}

// ValidateOverrides checks that every patch targets a derived stat and
// resolves against its defaults.
func (r *Registry) ValidateOverrides(o Overrides) error {
	for _, id := range o.IDs() {
		def, ok := r.byID[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownStat, id)
		}
		if def.IsBase() {
			return fmt.Errorf("%w: %s is an input and has no configuration", ErrInvalidOverride, id)
		}
		if _, err := ResolveConfig(def, o[id]); err != nil {
			return err
		}
	}
	return nil
}
