package stats

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"

	"gopkg.in/yaml.v3"
)

// Reserved patch keys. Every other key is a formula parameter.
const (
	keyEnabled       = "enabled"
	keyInstanceCount = "instanceCount"
)

// Config holds the formula parameters of one definition for one evaluation.
// Zero value is a disabled formula with no parameters.
type Config struct {
	Enabled       bool
	InstanceCount int
	Num           map[string]float64
	Text          map[string]string
	Flag          map[string]bool
}

// Float returns a numeric parameter, 0 when absent.
func (c Config) Float(key string) float64 {
	return c.Num[key]
}

// String returns a text parameter, "" when absent.
func (c Config) String(key string) string {
	return c.Text[key]
}

// Bool returns a flag parameter, false when absent.
func (c Config) Bool(key string) bool {
	return c.Flag[key]
}

// Instances returns the number of equipped copies of the effect, at least 1.
func (c Config) Instances() int {
	if c.InstanceCount < 1 {
		return 1
	}
	return c.InstanceCount
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	return Config{
		Enabled:       c.Enabled,
		InstanceCount: c.InstanceCount,
		Num:           maps.Clone(c.Num),
		Text:          maps.Clone(c.Text),
		Flag:          maps.Clone(c.Flag),
	}
}

// Patch is a partial Config. Nil pointers and absent map keys fall through
// to the definition defaults.
//
// On the wire a patch is a flat object, e.g.
//
//	{"enabled": true, "maxStacks": 50, "currentStacks": 25, "instanceCount": 2}
//
// numbers become Num entries, strings Text entries and booleans Flag entries.
type Patch struct {
	Enabled       *bool
	InstanceCount *int
	Num           map[string]float64
	Text          map[string]string
	Flag          map[string]bool
}

// Enable returns a patch that only switches the formula on.
func Enable() Patch {
	on := true
	return Patch{Enabled: &on}
}

// WithNum returns a copy of p with a numeric parameter set.
func (p Patch) WithNum(key string, v float64) Patch {
	out := p.clone()
	if out.Num == nil {
		out.Num = make(map[string]float64, 1)
	}
	out.Num[key] = v
	return out
}

// WithText returns a copy of p with a text parameter set.
func (p Patch) WithText(key, v string) Patch {
	out := p.clone()
	if out.Text == nil {
		out.Text = make(map[string]string, 1)
	}
	out.Text[key] = v
	return out
}

// WithFlag returns a copy of p with a flag parameter set.
func (p Patch) WithFlag(key string, v bool) Patch {
	out := p.clone()
	if out.Flag == nil {
		out.Flag = make(map[string]bool, 1)
	}
	out.Flag[key] = v
	return out
}

// WithInstances returns a copy of p with the instance count set.
func (p Patch) WithInstances(n int) Patch {
	out := p.clone()
	out.InstanceCount = &n
	return out
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.Enabled == nil && p.InstanceCount == nil &&
		len(p.Num) == 0 && len(p.Text) == 0 && len(p.Flag) == 0
}

// Merge returns p overlaid with other; other wins per field.
func (p Patch) Merge(other Patch) Patch {
	out := p.clone()
	if other.Enabled != nil {
		v := *other.Enabled
		out.Enabled = &v
	}
	if other.InstanceCount != nil {
		v := *other.InstanceCount
		out.InstanceCount = &v
	}
	out.Num = mergeMap(out.Num, other.Num)
	out.Text = mergeMap(out.Text, other.Text)
	out.Flag = mergeMap(out.Flag, other.Flag)
	return out
}

func (p Patch) clone() Patch {
	out := Patch{
		Num:  maps.Clone(p.Num),
		Text: maps.Clone(p.Text),
		Flag: maps.Clone(p.Flag),
	}
	if p.Enabled != nil {
		v := *p.Enabled
		out.Enabled = &v
	}
	if p.InstanceCount != nil {
		v := *p.InstanceCount
		out.InstanceCount = &v
	}
	return out
}

func mergeMap[V any](dst, src map[string]V) map[string]V {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]V, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

// MarshalJSON encodes the patch as a flat object.
func (p Patch) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.flatten())
}

// UnmarshalJSON decodes a flat object into the typed patch.
func (p *Patch) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding patch: %w", err)
	}
	return p.fromFlat(raw)
}

// MarshalYAML encodes the patch as a flat mapping.
func (p Patch) MarshalYAML() (any, error) {
	return p.flatten(), nil
}

// UnmarshalYAML decodes a flat mapping into the typed patch.
func (p *Patch) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("decoding patch: %w", err)
	}
	return p.fromFlat(raw)
}

func (p Patch) flatten() map[string]any {
	out := make(map[string]any, len(p.Num)+len(p.Text)+len(p.Flag)+2)
	for k, v := range p.Num {
		out[k] = v
	}
	for k, v := range p.Text {
		out[k] = v
	}
	for k, v := range p.Flag {
		out[k] = v
	}
	if p.Enabled != nil {
		out[keyEnabled] = *p.Enabled
	}
	if p.InstanceCount != nil {
		out[keyInstanceCount] = *p.InstanceCount
	}
	return out
}

func (p *Patch) fromFlat(raw map[string]any) error {
	*p = Patch{}
	for key, v := range raw {
		switch key {
		case keyEnabled:
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("%w: %q must be a boolean", ErrInvalidOverride, key)
			}
			p.Enabled = &b
			continue
		case keyInstanceCount:
			n, ok := toFloat(v)
			if !ok || n != math.Trunc(n) {
				return fmt.Errorf("%w: %q must be an integer", ErrInvalidOverride, key)
			}
			count := int(n)
			p.InstanceCount = &count
			continue
		}

		switch val := v.(type) {
		case bool:
			*p = p.WithFlag(key, val)
		case string:
			*p = p.WithText(key, val)
		default:
			n, ok := toFloat(v)
			if !ok {
				return fmt.Errorf("%w: parameter %q has unsupported type %T", ErrInvalidOverride, key, v)
			}
			*p = p.WithNum(key, n)
		}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Overrides maps a stat id to the patch applied to its defaults for one run.
type Overrides map[string]Patch

// Merge returns o overlaid with other; for stats present in both the
// patches are merged field by field with other winning.
func (o Overrides) Merge(other Overrides) Overrides {
	out := make(Overrides, len(o)+len(other))
	for id, p := range o {
		out[id] = p.clone()
	}
	for id, p := range other {
		if cur, ok := out[id]; ok {
			out[id] = cur.Merge(p)
			continue
		}
		out[id] = p.clone()
	}
	return out
}

// IDs returns the overridden stat ids in sorted order.
func (o Overrides) IDs() []string {
	return slices.Sorted(maps.Keys(o))
}

// ResolveConfig merges the patch over def's defaults. Patch fields win per
// key; nested values are not merged. Parameters the definition does not
// declare are rejected, as are text values outside the declared choices.
func ResolveConfig(def *Definition, patch Patch) (Config, error) {
	cfg := def.Defaults.Clone()

	if patch.Enabled != nil {
		cfg.Enabled = *patch.Enabled
	}
	if patch.InstanceCount != nil {
		if *patch.InstanceCount < 0 {
			return Config{}, fmt.Errorf("%w: %s: negative instance count %d",
				ErrInvalidOverride, def.ID, *patch.InstanceCount)
		}
		cfg.InstanceCount = *patch.InstanceCount
	}

	for key, v := range patch.Num {
		if _, ok := def.Defaults.Num[key]; !ok {
			return Config{}, fmt.Errorf("%w: %s.%s", ErrUnknownParam, def.ID, key)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Config{}, fmt.Errorf("%w: %s.%s is not finite", ErrInvalidOverride, def.ID, key)
		}
		cfg.Num[key] = v
	}
	for key, v := range patch.Text {
		if _, ok := def.Defaults.Text[key]; !ok {
			return Config{}, fmt.Errorf("%w: %s.%s", ErrUnknownParam, def.ID, key)
		}
		if choices, ok := def.Choices[key]; ok && !slices.Contains(choices, v) {
			return Config{}, fmt.Errorf("%w: %s.%s=%q (allowed: %v)",
				ErrDisallowedValue, def.ID, key, v, choices)
		}
		cfg.Text[key] = v
	}
	for key, v := range patch.Flag {
		if _, ok := def.Defaults.Flag[key]; !ok {
			return Config{}, fmt.Errorf("%w: %s.%s", ErrUnknownParam, def.ID, key)
		}
		cfg.Flag[key] = v
	}

	return cfg, nil
}
