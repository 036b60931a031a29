package testutil

import (
	"time"

	"github.com/udisondev/statcalc/internal/build"
	"github.com/udisondev/statcalc/internal/monogram"
	"github.com/udisondev/statcalc/internal/stats"
)

// SampleBuild returns a build exercising every field: inputs with sources,
// monograms (one duplicated, one unknown) and a manual override.
func SampleBuild(name string) *build.Build {
	return &build.Build{
		Name: name,
		BaseStats: map[string]float64{
			"strength":      100,
			"strengthBonus": 50,
			"damage":        1000,
			"critDamage":    100,
		},
		Sources: stats.SourceIndex{
			"strength": {
				{ItemName: "Ring of Might", Slot: "ring", Value: 60},
				{ItemName: "Iron Helm", Slot: "helmet", Value: 40},
			},
			"strengthBonus": {{ItemName: "Amulet of Power", Slot: "amulet", Value: 50, Percent: true}},
		},
		Monograms: []monogram.Equipped{
			{ID: "AllowPhasing", ItemName: "Iron Helm", Slot: "helmet"},
			{ID: "Elite.SpawnChance", ItemName: "Amulet of Power", Slot: "amulet"},
			{ID: "Elite.SpawnChance", ItemName: "Hunter's Amulet", Slot: "amulet"},
			{ID: "Retired.Monogram", ItemName: "Old Bracer", Slot: "bracer"},
		},
		Overrides: stats.Overrides{
			"phasingStacks": stats.Patch{}.WithNum("currentStacks", 30),
			"edpsSCHD":      stats.Patch{}.WithText("stance", "sword"),
		},
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}
