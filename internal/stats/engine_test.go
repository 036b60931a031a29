package stats

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calc(t *testing.T, base map[string]float64, o Overrides) Values {
	t.Helper()
	values, err := NewEngine(Default()).Calculate(base, o)
	require.NoError(t, err)
	return values
}

func TestCalculate_EmptyInputIsTotal(t *testing.T) {
	values := calc(t, map[string]float64{}, nil)

	for _, def := range Default().Definitions() {
		if def.IsBase() {
			assert.NotContains(t, values, def.ID, "inputs are not invented")
			continue
		}
		require.Contains(t, values, def.ID)
		switch def.Category {
		case CategoryMonogram, CategoryMonogramDisplay, CategoryMonogramChain:
			assert.Zero(t, values[def.ID], "%s must stay off without an override", def.ID)
		}
	}

	// neutral multipliers
	assert.Equal(t, 1.0, values["edpsSCHD"])
	assert.Equal(t, 2.0, values["edpsWAD"])
	assert.Equal(t, 1.0, values["edpsBD"])
	assert.Zero(t, values["edpsDDNormal"])
}

func TestCalculate_NilInput(t *testing.T) {
	values := calc(t, nil, nil)
	assert.Zero(t, values["totalStrength"])
	assert.Zero(t, values["highestAttribute"])
}

func TestCalculate_Totals(t *testing.T) {
	values := calc(t, map[string]float64{"strength": 100, "strengthBonus": 50}, nil)
	assert.Equal(t, 150.0, values["totalStrength"])

	// floored
	values = calc(t, map[string]float64{"luck": 33, "luckBonus": 10}, nil)
	assert.Equal(t, 36.0, values["totalLuck"])
}

func TestCalculate_HighestAttribute(t *testing.T) {
	values := calc(t, map[string]float64{
		"strength":  100,
		"dexterity": 200,
		"wisdom":    150,
		"vitality":  50,
	}, nil)
	assert.Equal(t, 200.0, values["highestAttribute"])

	// vitality does not count
	values = calc(t, map[string]float64{"vitality": 900, "luck": 10}, nil)
	assert.Equal(t, 10.0, values["highestAttribute"])
}

func TestCalculate_ConditionalActivation(t *testing.T) {
	values := calc(t, nil, nil)
	assert.Zero(t, values["phasingStacks"])
	assert.Zero(t, values["bloodlustStacks"])
	assert.Zero(t, values["phasingDamageBonus"])

	values = calc(t, nil, Overrides{
		"phasingStacks": Enable().WithNum("maxStacks", 50).WithNum("currentStacks", 25),
	})
	assert.Equal(t, 25.0, values["phasingStacks"])
	assert.Zero(t, values["bloodlustStacks"])

	// clamped to maxStacks
	values = calc(t, nil, Overrides{
		"phasingStacks": Enable().WithNum("currentStacks", 80),
	})
	assert.Equal(t, 50.0, values["phasingStacks"])
}

func TestCalculate_PhasingChain(t *testing.T) {
	values := calc(t, nil, Overrides{
		"phasingStacks": Enable().WithNum("maxStacks", 50).WithNum("currentStacks", 50),
	})
	assert.Equal(t, 50.0, values["phasingDamageBonus"])
	assert.Equal(t, 25.0, values["phasingBossDamageBonus"])
	assert.InDelta(t, 1.25, values["edpsBD"], 1e-9)
}

func TestCalculate_EssenceChain(t *testing.T) {
	overrides := Overrides{
		"darkEssenceStacks":     Enable().WithNum("currentStacks", 500).WithNum("maxStacks", 500),
		"critChanceFromEssence": Enable().WithNum("essencePerCrit", 20),
	}
	values := calc(t, map[string]float64{"strength": 1000}, overrides)

	assert.Equal(t, 1000.0, values["highestAttribute"])
	assert.Equal(t, 1250.0, values["essence"])
	assert.Equal(t, 62.0, values["critChanceFromEssence"])

	// half the threshold gives half the essence
	overrides["darkEssenceStacks"] = Enable().WithNum("currentStacks", 250)
	values = calc(t, map[string]float64{"strength": 1000}, overrides)
	assert.Equal(t, 625.0, values["essence"])
	assert.Equal(t, 31.0, values["critChanceFromEssence"])
}

func TestCalculate_DegenerateStackParams(t *testing.T) {
	base := map[string]float64{"strength": 1000}

	values := calc(t, base, Overrides{
		"darkEssenceStacks": Enable().WithNum("currentStacks", -1),
		"essence":           Patch{}.WithNum("thresholdStacks", 0),
	})
	assert.Equal(t, 0.0, values["darkEssenceStacks"])
	assert.Equal(t, 0.0, values["essence"])

	// no threshold means full essence as soon as any stack is up
	values = calc(t, base, Overrides{
		"darkEssenceStacks": Enable().WithNum("currentStacks", 1),
		"essence":           Patch{}.WithNum("thresholdStacks", 0),
	})
	assert.Equal(t, 1250.0, values["essence"])

	values = calc(t, nil, Overrides{
		"phasingStacks": Enable().WithNum("currentStacks", -20),
	})
	assert.Equal(t, 0.0, values["phasingStacks"])
	assert.Equal(t, 0.0, values["phasingDamageBonus"])

	values = calc(t, nil, Overrides{
		"phasingStacks": Enable().WithNum("maxStacks", -5),
	})
	assert.Equal(t, 0.0, values["phasingStacks"])
}

func TestCalculate_NonFinite(t *testing.T) {
	engine := NewEngine(Default())

	tests := []struct {
		name string
		base map[string]float64
	}{
		{"overflowing total", map[string]float64{"strength": 1e308, "strengthBonus": 100}},
		{"NaN input", map[string]float64{"strength": math.NaN()}},
		{"infinite input", map[string]float64{"damage": math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := engine.Calculate(tt.base, nil)
			require.ErrorIs(t, err, ErrNonFinite)
			assert.Nil(t, values)
		})
	}
}

func TestCalculate_OvercritChain(t *testing.T) {
	overrides := Overrides{
		"darkEssenceStacks":     Enable(),
		"critChanceFromEssence": Enable(),
		"elementFromCritChance": Enable().WithText("elementType", "arcane"),
		"lifeFromElement":       Enable(),
	}
	values := calc(t, map[string]float64{"strength": 1000, "critChance": 80}, overrides)

	// 80 + 62 crit, 42 over the threshold
	assert.Equal(t, 126.0, values["elementFromCritChance"])
	assert.Zero(t, values["lifeBonusFromCritChance"])
	assert.Equal(t, 8.0, values["lifeFromElement"])
	assert.InDelta(t, 1+126.0/100, values["edpsED"], 1e-9)
}

func TestCalculate_SourceStatChoice(t *testing.T) {
	base := map[string]float64{"strength": 150, "dexterity": 340}

	values := calc(t, base, Overrides{"monogramValueFromStrength": Enable()})
	assert.Equal(t, 1.0, values["monogramValueFromStrength"])

	values = calc(t, base, Overrides{
		"monogramValueFromStrength": Enable().WithText("sourceStat", "highestAttribute"),
	})
	assert.Equal(t, 3.0, values["monogramValueFromStrength"])
	assert.Equal(t, 6.0, values["chainedElementalBonus"])
	assert.Equal(t, 10.0, values["chainedHealthBonus"])
}

func TestCalculate_InstanceCount(t *testing.T) {
	tests := []struct {
		name string
		p    Patch
		want float64
	}{
		{"disabled", Patch{}.WithInstances(3), 0},
		{"default one copy", Enable(), 10},
		{"zero counts as one", Enable().WithInstances(0), 10},
		{"three copies", Enable().WithInstances(3), 30},
		{"capped", Enable().WithInstances(7), 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := calc(t, nil, Overrides{"eliteSpawnChance": tt.p})
			assert.Equal(t, tt.want, values["eliteSpawnChance"])
		})
	}

	// snail spawn has no cap
	values := calc(t, nil, Overrides{"snailSpawnChance": Enable().WithInstances(12)})
	assert.Equal(t, 120.0, values["snailSpawnChance"])
}

func TestCalculate_EDPS(t *testing.T) {
	base := map[string]float64{
		"damage":      1000,
		"damageBonus": 50,
		"critDamage":  100,
		"bossBonus":   50,
	}
	values := calc(t, base, nil)

	assert.Equal(t, 1500.0, values["totalDamage"])
	assert.Equal(t, 1500.0, values["edpsFlat"])
	assert.InDelta(t, 1.5, values["edpsAdditiveMulti"], 1e-9)
	assert.Equal(t, 4500.0, values["edpsDDNormal"])
	assert.Equal(t, 6750.0, values["edpsDDBoss"])
	assert.Equal(t, 4500.0, values["edpsOffhandNormal"])
	assert.Equal(t, 6750.0, values["edpsOffhandBoss"])

	values = calc(t, base, Overrides{"edpsWAD": Patch{}.WithFlag("useSecondary", true)})
	assert.Equal(t, 9000.0, values["edpsDDNormal"])
}

func TestCalculate_StanceSelection(t *testing.T) {
	base := map[string]float64{
		"swordDamage":     20,
		"maulDamage":      40,
		"swordCritDamage": 30,
	}

	values := calc(t, base, nil)
	assert.InDelta(t, 0.4, values["edpsAdditiveMulti"], 1e-9)
	assert.InDelta(t, 1.3, values["edpsSCHD"], 1e-9)

	values = calc(t, base, Overrides{
		"edpsAdditiveMulti": Patch{}.WithText("stance", "sword"),
		"edpsSCHD":          Patch{}.WithText("stance", "maul"),
	})
	assert.InDelta(t, 0.2, values["edpsAdditiveMulti"], 1e-9)
	assert.InDelta(t, 1.0, values["edpsSCHD"], 1e-9)
}

func TestCalculate_MonogramFlatDamageFeedsEDPS(t *testing.T) {
	values := calc(t, map[string]float64{"damage": 100}, Overrides{
		"flatDamageMonogramBonus": Enable(),
		"paragonLevel":            Enable().WithNum("level", 10),
	})
	assert.Equal(t, 20.0, values["paragonDamageBonus"])
	assert.Equal(t, 150.0, values["paragonArmorBonus"])
	assert.Equal(t, 420.0, values["edpsFlat"])
}

func TestCalculate_InvalidOverride(t *testing.T) {
	_, err := NewEngine(Default()).Calculate(nil, Overrides{"phasingStacks": Enable().WithNum("bogus", 1)})
	assert.ErrorIs(t, err, ErrUnknownParam)
}

func TestCalculate_Deterministic(t *testing.T) {
	base := map[string]float64{"strength": 420, "strengthBonus": 15, "damage": 77, "critChance": 101}
	overrides := Overrides{
		"darkEssenceStacks":     Enable(),
		"critChanceFromEssence": Enable(),
		"shroudStacks":          Enable().WithNum("currentStacks", 12),
	}
	first := calc(t, base, overrides)
	second := calc(t, base, overrides)
	assert.Equal(t, first, second)

	// the input map is not touched
	assert.Len(t, base, 4)
}

func TestCalculate_ConcurrentCallsAreIndependent(t *testing.T) {
	engine := NewEngine(Default())
	want, err := engine.Calculate(map[string]float64{"strength": 10}, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := engine.Calculate(map[string]float64{"strength": float64(i)}, nil)
			assert.NoError(t, err)
			assert.Equal(t, float64(i), v["totalStrength"])
		}(i)
	}
	wg.Wait()

	again, err := engine.Calculate(map[string]float64{"strength": 10}, nil)
	require.NoError(t, err)
	assert.Equal(t, want, again)
}

func TestCalculateDetailed(t *testing.T) {
	reg := Default()
	sources := SourceIndex{
		"strength": {
			{ItemName: "Iron Helm", Slot: "head", Value: 60},
			{ItemName: "Ring of Might", Slot: "ring1", Value: 40},
		},
		"totalStrength": {{ItemName: "ignored", Value: 1}},
	}
	overrides := Overrides{"phasingStacks": Enable()}

	res, err := NewEngine(reg).CalculateDetailed(
		map[string]float64{"strength": 100, "strengthBonus": 50}, overrides, sources)
	require.NoError(t, err)

	require.Len(t, res.Detailed, reg.Len())
	for i, def := range reg.CalculationOrder() {
		assert.Equal(t, def.ID, res.Detailed[i].ID)
	}

	rows := make(map[string]DetailedStat)
	for _, row := range res.Detailed {
		rows[row.ID] = row
	}
	assert.Len(t, rows["strength"].Sources, 2)
	assert.Empty(t, rows["totalStrength"].Sources, "derived rows carry no sources")
	assert.Equal(t, "150", rows["totalStrength"].FormattedValue)
	assert.Equal(t, []string{"strength", "strengthBonus"}, rows["totalStrength"].Dependencies)
	assert.Equal(t, "+25.0%", rows["phasingBossDamageBonus"].FormattedValue)
	assert.Equal(t, "+100", rows["strength"].FormattedValue)
	assert.Equal(t, LayerTotals, rows["totalStrength"].Layer)

	grouped := 0
	for cat, list := range res.ByCategory {
		for _, row := range list {
			assert.Equal(t, cat, row.Category)
		}
		grouped += len(list)
	}
	assert.Equal(t, reg.Len(), grouped)

	grouped = 0
	for layer, list := range res.ByLayer {
		for _, row := range list {
			assert.Equal(t, layer, row.Layer)
		}
		grouped += len(list)
	}
	assert.Equal(t, reg.Len(), grouped)
	assert.Equal(t, "totalStrength", res.ByLayer[LayerTotals][0].ID)
}

func TestFormatters(t *testing.T) {
	reg := Default()
	tests := []struct {
		id    string
		value float64
		want  string
	}{
		{"edpsDDNormal", 1234567, "1,234,567"},
		{"edpsSCHD", 1.35, "135%"},
		{"lifestealToEnergySteal", 1, "Active"},
		{"lifestealToEnergySteal", 0, "Inactive"},
		{"colossusDoubleAttackSpeed", 2, "2x"},
		{"colossusDoubleAttackSpeed", 0, "Inactive"},
		{"damageFromHealth", 12, "+12"},
		{"eliteSpawnChance", 30, "30%"},
		{"damageReduction", -5, "-5%"},
	}
	for _, tt := range tests {
		def, ok := reg.Get(tt.id)
		require.True(t, ok, tt.id)
		assert.Equal(t, tt.want, def.FormatValue(tt.value), tt.id)
	}
}
