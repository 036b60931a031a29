package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mustDef(t *testing.T, id string) *Definition {
	t.Helper()
	def, ok := Default().Get(id)
	require.True(t, ok, id)
	return def
}

func TestResolveConfig_DefaultsFallThrough(t *testing.T) {
	def := mustDef(t, "phasingStacks")

	cfg, err := ResolveConfig(def, Patch{})
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 50.0, cfg.Float("maxStacks"))
	assert.Equal(t, 50.0, cfg.Float("currentStacks"))
	assert.Equal(t, 1, cfg.Instances())

	cfg, err = ResolveConfig(def, Enable().WithNum("currentStacks", 10).WithInstances(2))
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 50.0, cfg.Float("maxStacks"))
	assert.Equal(t, 10.0, cfg.Float("currentStacks"))
	assert.Equal(t, 2, cfg.Instances())

	// defaults are never written through
	assert.Equal(t, 50.0, def.Defaults.Num["currentStacks"])
	assert.False(t, def.Defaults.Enabled)
}

func TestResolveConfig_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		patch Patch
		want  error
	}{
		{"unknown number", "essence", Patch{}.WithNum("stacks", 1), ErrUnknownParam},
		{"unknown flag", "edpsWAD", Patch{}.WithFlag("useTertiary", true), ErrUnknownParam},
		{"nan", "essence", Patch{}.WithNum("multiplier", math.NaN()), ErrInvalidOverride},
		{"inf", "essence", Patch{}.WithNum("multiplier", math.Inf(1)), ErrInvalidOverride},
		{"negative instances", "eliteSpawnChance", Enable().WithInstances(-1), ErrInvalidOverride},
		{"element outside choices", "elementFromCritChance", Patch{}.WithText("elementType", "poison"), ErrDisallowedValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveConfig(mustDef(t, tt.id), tt.patch)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPatch_Merge(t *testing.T) {
	a := Enable().WithNum("currentStacks", 10).WithNum("maxStacks", 20)
	off := false
	b := Patch{Enabled: &off}.WithNum("currentStacks", 5).WithText("stance", "sword")

	got := a.Merge(b)
	require.NotNil(t, got.Enabled)
	assert.False(t, *got.Enabled)
	assert.Equal(t, map[string]float64{"currentStacks": 5, "maxStacks": 20}, got.Num)
	assert.Equal(t, map[string]string{"stance": "sword"}, got.Text)

	// inputs untouched
	assert.True(t, *a.Enabled)
	assert.Equal(t, 10.0, a.Num["currentStacks"])
	assert.True(t, Patch{}.IsZero())
	assert.False(t, got.IsZero())
}

func TestOverrides_Merge(t *testing.T) {
	base := Overrides{
		"phasingStacks": Enable(),
		"essence":       Patch{}.WithNum("multiplier", 2),
	}
	extra := Overrides{
		"phasingStacks":    Patch{}.WithNum("currentStacks", 7),
		"eliteSpawnChance": Enable().WithInstances(2),
	}

	got := base.Merge(extra)
	assert.Equal(t, []string{"eliteSpawnChance", "essence", "phasingStacks"}, got.IDs())
	require.NotNil(t, got["phasingStacks"].Enabled)
	assert.True(t, *got["phasingStacks"].Enabled)
	assert.Equal(t, 7.0, got["phasingStacks"].Num["currentStacks"])
	assert.Empty(t, base["phasingStacks"].Num)
}

func TestPatch_JSON(t *testing.T) {
	var p Patch
	err := json.Unmarshal([]byte(`{
		"enabled": true,
		"instanceCount": 2,
		"currentStacks": 25,
		"stance": "sword",
		"useSecondary": true
	}`), &p)
	require.NoError(t, err)

	require.NotNil(t, p.Enabled)
	assert.True(t, *p.Enabled)
	require.NotNil(t, p.InstanceCount)
	assert.Equal(t, 2, *p.InstanceCount)
	assert.Equal(t, map[string]float64{"currentStacks": 25}, p.Num)
	assert.Equal(t, map[string]string{"stance": "sword"}, p.Text)
	assert.Equal(t, map[string]bool{"useSecondary": true}, p.Flag)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"enabled":true,"instanceCount":2,"currentStacks":25,"stance":"sword","useSecondary":true}`, string(out))
}

func TestPatch_JSONRejectsBadShapes(t *testing.T) {
	for _, raw := range []string{
		`{"enabled": "yes"}`,
		`{"instanceCount": 1.5}`,
		`{"maxStacks": [1, 2]}`,
		`{"maxStacks": null}`,
	} {
		var p Patch
		err := json.Unmarshal([]byte(raw), &p)
		assert.ErrorIs(t, err, ErrInvalidOverride, raw)
	}
}

func TestOverrides_YAML(t *testing.T) {
	src := `
phasingStacks:
  enabled: true
  currentStacks: 30
edpsSCHD:
  stance: maul
`
	var o Overrides
	require.NoError(t, yaml.Unmarshal([]byte(src), &o))
	require.Len(t, o, 2)
	assert.True(t, *o["phasingStacks"].Enabled)
	assert.Equal(t, 30.0, o["phasingStacks"].Num["currentStacks"])
	assert.Equal(t, "maul", o["edpsSCHD"].Text["stance"])
	assert.NoError(t, Default().ValidateOverrides(o))

	out, err := yaml.Marshal(o)
	require.NoError(t, err)
	var again Overrides
	require.NoError(t, yaml.Unmarshal(out, &again))
	assert.Equal(t, o, again)
}
