package stats

import (
	"log/slog"
	"math"
	"sync"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the built-in registry. It is validated on first use and
// panics if the built-in table is inconsistent.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = MustRegistry(BuiltinDefinitions())
		slog.Debug("stat registry loaded", "stats", defaultRegistry.Len())
	})
	return defaultRegistry
}

// BuiltinDefinitions returns a fresh copy of the built-in table in
// declaration order.
func BuiltinDefinitions() []Definition {
	var defs []Definition
	defs = append(defs, baseDefinitions()...)
	defs = append(defs, totalDefinitions()...)
	defs = append(defs, primaryDefinitions()...)
	defs = append(defs, secondaryDefinitions()...)
	defs = append(defs, tertiaryDefinitions()...)
	defs = append(defs, edpsDefinitions()...)
	return defs
}

// per returns how many whole intervals fit into x, 0 for a non-positive interval.
func per(x, interval float64) float64 {
	if interval <= 0 {
		return 0
	}
	return math.Floor(x / interval)
}

// orOne treats an unset multiplier as neutral.
func orOne(x float64) float64 {
	if x == 0 {
		return 1
	}
	return x
}

// stacks is min(currentStacks, maxStacks), never below 0.
func stacks(cfg Config) float64 {
	return math.Max(0, math.Min(cfg.Float("currentStacks"), cfg.Float("maxStacks")))
}

// stackCounter is a buff counter switched on by a monogram.
// Value: min(currentStacks, maxStacks), 0 when disabled.
func stackCounter(id, name, desc string, maxStacks float64) Definition {
	return Definition{
		ID:          id,
		Name:        name,
		Category:    CategoryMonogram,
		Layer:       LayerPrimary,
		Description: desc,
		Defaults: Config{
			Num: map[string]float64{"maxStacks": maxStacks, "currentStacks": maxStacks},
		},
		Compute: func(_, _ Reader, cfg Config) float64 {
			if !cfg.Enabled {
				return 0
			}
			return stacks(cfg)
		},
		Format: formatFlat,
	}
}

// perStack scales an upstream counter. It has no enabled flag: a disabled
// counter reads 0 and the bonus follows.
func perStack(id, name, desc, counter, key string, amount float64, layer Layer, format FormatFunc) Definition {
	return Definition{
		ID:          id,
		Name:        name,
		Category:    CategoryMonogram,
		Layer:       layer,
		Description: desc,
		Percent:     true,
		Deps:        []string{counter},
		Defaults:    Config{Num: map[string]float64{key: amount}},
		Compute: func(v, _ Reader, cfg Config) float64 {
			return v.Get(counter) * cfg.Float(key)
		},
		Format: format,
	}
}

// toggle yields a fixed parameter while enabled.
func toggle(id, name, desc string, cat Category, key string, amount float64, percent bool, format FormatFunc) Definition {
	return Definition{
		ID:          id,
		Name:        name,
		Category:    cat,
		Layer:       LayerPrimary,
		Description: desc,
		Percent:     percent,
		Defaults:    Config{Num: map[string]float64{key: amount}},
		Compute: func(_, _ Reader, cfg Config) float64 {
			if !cfg.Enabled {
				return 0
			}
			return cfg.Float(key)
		},
		Format: format,
	}
}

// cappedBonus is bonusKey per stack with stacks clamped to maxStacks.
func cappedBonus(id, name, desc, key string, amount, maxStacks float64, format FormatFunc) Definition {
	return Definition{
		ID:          id,
		Name:        name,
		Category:    CategoryMonogram,
		Layer:       LayerPrimary,
		Description: desc,
		Percent:     true,
		Defaults: Config{Num: map[string]float64{
			key:             amount,
			"maxStacks":     maxStacks,
			"currentStacks": maxStacks,
		}},
		Compute: func(_, _ Reader, cfg Config) float64 {
			if !cfg.Enabled {
				return 0
			}
			return stacks(cfg) * cfg.Float(key)
		},
		Format: format,
	}
}

// perHighest grants amount per statInterval points of the highest attribute.
func perHighest(id, name, desc, key string, amount, interval float64) Definition {
	return Definition{
		ID:          id,
		Name:        name,
		Category:    CategoryMonogram,
		Layer:       LayerPrimary,
		Description: desc,
		Percent:     true,
		Deps:        []string{"highestAttribute"},
		Defaults: Config{Num: map[string]float64{
			key:            amount,
			"statInterval": interval,
		}},
		Compute: func(v, _ Reader, cfg Config) float64 {
			if !cfg.Enabled {
				return 0
			}
			return per(v.Get("highestAttribute"), cfg.Float("statInterval")) * cfg.Float(key)
		},
		Format: formatSignedPercent,
	}
}

// spawnChance scales with the number of equipped copies, optionally capped.
func spawnChance(id, name, desc string, amount, maxChance float64) Definition {
	num := map[string]float64{"chancePerInstance": amount}
	if maxChance > 0 {
		num["maxChance"] = maxChance
	}
	return Definition{
		ID:          id,
		Name:        name,
		Category:    CategoryMonogramDisplay,
		Layer:       LayerPrimary,
		Description: desc,
		Percent:     true,
		Defaults:    Config{Num: num},
		Compute: func(_, _ Reader, cfg Config) float64 {
			if !cfg.Enabled {
				return 0
			}
			chance := float64(cfg.Instances()) * cfg.Float("chancePerInstance")
			if limit, ok := cfg.Num["maxChance"]; ok {
				chance = math.Min(chance, limit)
			}
			return chance
		},
		Format: formatPercent,
	}
}

// ratioOf is floor(source / ratio) * baseValue where source is picked by the
// sourceStat parameter.
func ratioOf(id, name, desc string, cat Category, layer Layer, sources []string, ratio, baseValue float64, gated bool, format FormatFunc) Definition {
	return Definition{
		ID:          id,
		Name:        name,
		Category:    cat,
		Layer:       layer,
		Description: desc,
		Deps:        sources,
		Defaults: Config{
			Num:  map[string]float64{"ratio": ratio, "baseValue": baseValue},
			Text: map[string]string{sourceStatKey: sources[0]},
		},
		Choices: map[string][]string{sourceStatKey: sources},
		Compute: func(v, _ Reader, cfg Config) float64 {
			if gated && !cfg.Enabled {
				return 0
			}
			return per(v.Get(cfg.String(sourceStatKey)), cfg.Float("ratio")) * cfg.Float("baseValue")
		},
		Format: format,
	}
}
