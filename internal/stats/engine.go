package stats

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
)

// Source is one contribution to an input stat, supplied by the caller for
// display. Only input rows carry sources.
type Source struct {
	ItemName string  `json:"item_name" yaml:"item_name"`
	Slot     string  `json:"slot" yaml:"slot"`
	Value    float64 `json:"value" yaml:"value"`
	Percent  bool    `json:"percent" yaml:"percent"`
}

// SourceIndex maps an input stat id to its contributions.
type SourceIndex map[string][]Source

// DetailedStat is a display-ready row for one definition.
type DetailedStat struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Value          float64  `json:"value"`
	FormattedValue string   `json:"formatted_value"`
	Description    string   `json:"description,omitempty"`
	Category       Category `json:"category"`
	Layer          Layer    `json:"layer"`
	Percent        bool     `json:"percent"`
	Dependencies   []string `json:"dependencies,omitempty"`
	Sources        []Source `json:"sources,omitempty"`
}

// Result is the output of CalculateDetailed.
type Result struct {
	Values     Values                      `json:"values"`
	Detailed   []DetailedStat              `json:"detailed"`
	ByCategory map[Category][]DetailedStat `json:"by_category"`
	ByLayer    map[Layer][]DetailedStat    `json:"by_layer"`
}

// Engine evaluates a registry. It holds no per-call state; every call
// allocates its own value map, so an Engine may be shared between goroutines.
type Engine struct {
	reg    *Registry
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine returns an engine over reg.
func NewEngine(reg *Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		reg:    reg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine evaluates.
func (e *Engine) Registry() *Registry {
	return e.reg
}

// Calculate evaluates every derived stat. Missing inputs read as 0 and
// missing overrides fall back to defaults. It fails on an override that does
// not fit its definition, and with ErrNonFinite when an input or a computed
// value is NaN or infinite.
//
// The returned map contains the inputs plus one entry per derived stat.
func (e *Engine) Calculate(base map[string]float64, overrides Overrides) (Values, error) {
	if err := e.reg.ValidateOverrides(overrides); err != nil {
		return nil, err
	}

	values := make(Values, len(base)+e.reg.Len())
	for id, v := range base {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: input %s", ErrNonFinite, id)
		}
		values[id] = v
	}
	raw := Values(base)

	evaluated := 0
	for _, def := range e.reg.order {
		if def.IsBase() {
			continue
		}
		cfg, err := ResolveConfig(def, overrides[def.ID])
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", def.ID, err)
		}
		v := def.Compute(values, raw, cfg)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s overflowed", ErrNonFinite, def.ID)
		}
		values[def.ID] = v
		evaluated++
	}

	e.logger.Debug("derived stats calculated",
		"inputs", len(base),
		"overrides", len(overrides),
		"evaluated", evaluated)

	return values, nil
}

// CalculateDetailed evaluates like Calculate and additionally returns one
// display row per definition, in calculation order, regrouped by category
// and by layer. sources may be nil.
func (e *Engine) CalculateDetailed(base map[string]float64, overrides Overrides, sources SourceIndex) (*Result, error) {
	values, err := e.Calculate(base, overrides)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Values:     values,
		Detailed:   make([]DetailedStat, 0, len(e.reg.order)),
		ByCategory: make(map[Category][]DetailedStat),
		ByLayer:    make(map[Layer][]DetailedStat, layerCount),
	}

	for _, def := range e.reg.order {
		v := values[def.ID]
		row := DetailedStat{
			ID:             def.ID,
			Name:           def.Name,
			Value:          v,
			FormattedValue: def.FormatValue(v),
			Description:    def.Description,
			Category:       def.Category,
			Layer:          def.Layer,
			Percent:        def.Percent,
			Dependencies:   slices.Clone(def.Deps),
		}
		if def.IsBase() && len(sources[def.ID]) > 0 {
			row.Sources = sources[def.ID]
		}
		res.Detailed = append(res.Detailed, row)
		res.ByCategory[def.Category] = append(res.ByCategory[def.Category], row)
		res.ByLayer[def.Layer] = append(res.ByLayer[def.Layer], row)
	}

	return res, nil
}
