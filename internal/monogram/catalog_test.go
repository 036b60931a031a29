package monogram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/statcalc/internal/stats"
)

func TestDefaultCatalog_ValidatesAgainstRegistry(t *testing.T) {
	c := DefaultCatalog()
	require.NotNil(t, c)
	assert.Same(t, c, DefaultCatalog())
	assert.Positive(t, c.Len())
	assert.NoError(t, c.Validate(stats.Default()))
}

func TestCatalog_Lookup(t *testing.T) {
	c := DefaultCatalog()

	m, ok := c.Get("Juggernaut")
	require.True(t, ok)
	assert.Equal(t, "Juggernaut", m.ID)
	assert.Len(t, m.Effects, 3)

	_, ok = c.Get("NoSuchMonogram")
	assert.False(t, ok)

	ids := c.IDs()
	assert.IsNonDecreasing(t, ids)
	assert.Len(t, ids, c.Len())

	assert.Equal(t, []string{"Paragon.Melee", "Paragon.Ranged"}, c.ForStat("paragonLevel"))
	assert.Empty(t, c.ForStat("totalStrength"))
}

func TestCatalog_Summary(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, "Juggernaut: 40% move speed, 25% crit chance, 2x crit damage", c.Summary("Juggernaut"))
	assert.Equal(t, "Colossus", c.Summary("Colossus.Base"))
	assert.Equal(t, "", c.Summary("NoSuchMonogram"))
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog(strings.NewReader(`
A:
  effects:
    - stat: phasingStacks
      config: {enabled: true, currentStacks: 5}
B:
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, c.IDs())

	a, _ := c.Get("A")
	assert.Equal(t, "A", a.Name)
	require.Len(t, a.Effects, 1)
	assert.Equal(t, 5.0, a.Effects[0].Config.Num["currentStacks"])

	empty, err := LoadCatalog(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, empty.Len())
}

func TestLoadCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"missing stat", "A:\n  effects:\n    - config: {enabled: true}\n", ErrEmptyEffect},
		{"blank id", "' ':\n  name: x\n", ErrEmptyID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(strings.NewReader(tt.src))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := LoadCatalog(strings.NewReader("A:\n  colour: red\n"))
	assert.Error(t, err, "unknown fields are rejected")
}

func TestCatalog_Validate(t *testing.T) {
	c, err := LoadCatalog(strings.NewReader(`
Unknown:
  effects:
    - stat: notAStat
Input:
  effects:
    - stat: strength
BadParam:
  effects:
    - stat: phasingStacks
      config: {stacks: 3}
`))
	require.NoError(t, err)

	err = c.Validate(stats.Default())
	assert.ErrorIs(t, err, ErrUnknownStat)
	assert.ErrorIs(t, err, ErrNotDerived)
	assert.ErrorIs(t, err, ErrInvalidPatch)
	assert.ErrorIs(t, err, stats.ErrUnknownParam)
}

func TestBuildOverrides_CollapsesDuplicates(t *testing.T) {
	c := DefaultCatalog()

	o, unknown := c.BuildOverrides([]Equipped{
		{ID: "Elite.SpawnChance", ItemName: "Amulet of Hunting", Slot: "amulet"},
		{ID: "Elite.SpawnChance", ItemName: "Amulet of Greed", Slot: "amulet"},
		{ID: "Juggernaut"},
	})
	assert.Empty(t, unknown)
	assert.Equal(t, []string{
		"eliteSpawnChance", "juggernautCritChance", "juggernautCritDamage", "juggernautMoveSpeed",
	}, o.IDs())

	p := o["eliteSpawnChance"]
	require.NotNil(t, p.InstanceCount)
	assert.Equal(t, 2, *p.InstanceCount)
	require.NotNil(t, p.Enabled)
	assert.True(t, *p.Enabled)
	assert.Equal(t, 1, *o["juggernautMoveSpeed"].InstanceCount)

	values, err := stats.NewEngine(stats.Default()).Calculate(nil, o)
	require.NoError(t, err)
	assert.Equal(t, 20.0, values["eliteSpawnChance"])
	assert.Equal(t, 40.0, values["juggernautMoveSpeed"])
}

func TestBuildOverrides_SharedStatCountsEveryMonogram(t *testing.T) {
	o, _ := DefaultCatalog().BuildOverrides([]Equipped{
		{ID: "Paragon.Melee"},
		{ID: "Paragon.Ranged"},
	})
	require.Contains(t, o, "paragonLevel")
	assert.Equal(t, 2, *o["paragonLevel"].InstanceCount)
}

func TestBuildOverrides_LaterMonogramWins(t *testing.T) {
	o, _ := DefaultCatalog().BuildOverrides([]Equipped{
		{ID: "ElementForCritChance.Fire"},
		{ID: "ElementForCritChance.Arcane"},
	})
	assert.Equal(t, "arcane", o["elementFromCritChance"].Text["elementType"])
	assert.Equal(t, 2, *o["elementFromCritChance"].InstanceCount)
}

func TestBuildOverrides_UnknownIDs(t *testing.T) {
	o, unknown := DefaultCatalog().BuildOverrides([]Equipped{
		{ID: "Mystery"},
		{ID: "Colossus.Base"},
		{ID: "Mystery"},
		{ID: "Other"},
	})
	assert.Equal(t, []string{"Mystery", "Other"}, unknown)
	assert.Empty(t, o, "effectless monograms add nothing")

	o, unknown = DefaultCatalog().BuildOverrides(nil)
	assert.Empty(t, o)
	assert.Empty(t, unknown)
}
