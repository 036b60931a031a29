// Package stats holds the derived stat registry and the engine that evaluates
// it layer by layer over a map of input stats.
package stats

// Reader gives read access to stat values. Missing ids read as 0.
type Reader interface {
	Get(id string) float64
}

// ComputeFunc evaluates one derived stat. v holds every stat evaluated so far
// (base inputs included), base holds the raw inputs only.
type ComputeFunc func(v, base Reader, cfg Config) float64

// FormatFunc renders a value for display.
type FormatFunc func(v float64) string

// Definition describes one stat of the registry. Definitions are never
// mutated after NewRegistry.
type Definition struct {
	ID          string
	Name        string
	Category    Category
	Layer       Layer
	Description string
	Percent     bool

	// Deps lists every id Compute may read. Each one is either a raw input,
	// a stat of a lower layer or a stat declared earlier in the same layer.
	Deps []string

	// Defaults is the configuration used when no override is supplied.
	Defaults Config

	// Choices restricts text parameters to a fixed set of values.
	// Choices of the "sourceStat" parameter must all be listed in Deps.
	Choices map[string][]string

	Compute ComputeFunc
	Format  FormatFunc
}

// IsBase reports whether the definition is a pass-through input.
func (d *Definition) IsBase() bool {
	return d.Layer == LayerBase
}

// FormatValue renders v with the definition formatter.
func (d *Definition) FormatValue(v float64) string {
	if d.Format == nil {
		return formatFlat(v)
	}
	return d.Format(v)
}

// Values is the flat id → value map produced by an evaluation.
type Values map[string]float64

// Get returns the value of id, 0 when absent.
func (v Values) Get(id string) float64 {
	return v[id]
}

// Clone returns a copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
