package stats

import (
	"math"
	"slices"
)

// stanceKey picks the stance whose stats feed the damage buckets. An empty
// stance uses the highest value across all stances.
const stanceKey = "stance"

var stanceChoices = append([]string{""}, stances...)

// stanceValue reads the stat id(stance) of the configured stance, or the
// highest positive one when no stance is set.
func stanceValue(v Reader, cfg Config, id func(string) string) float64 {
	if s := cfg.String(stanceKey); s != "" {
		return v.Get(id(s))
	}
	best := 0.0
	for _, s := range stances {
		best = math.Max(best, v.Get(id(s)))
	}
	return best
}

func stanceIDs(id func(string) string) []string {
	out := make([]string, 0, len(stances))
	for _, s := range stances {
		out = append(out, id(s))
	}
	return out
}

func sum(v Reader, ids []string) float64 {
	total := 0.0
	for _, id := range ids {
		total += v.Get(id)
	}
	return total
}

var (
	flatSources = []string{
		"totalDamage",
		"damageFromHealth",
		"flatDamageMonogramBonus",
		"noEnergyDamageBonus",
		"paragonDamageBonus",
	}
	additiveSources = []string{
		"critDamage",
		"damageBonus",
		"phasingDamageBonus",
		"shroudDamageBonus",
		"bloodlustDrawBloodBonus",
		"highestStatDamageBonus",
		"damagePercentForStat2",
		"colossusDamageBonus",
		"damageNoPotionBonus",
		"invSlotDamageBonus",
	}
	stanceCritSources = []string{
		"bloodlustCritDamageBonus",
		"critDamageFromArmor",
	}
	elementSources = []string{
		"fireDamageBonus",
		"arcaneDamageBonus",
		"lightningDamageBonus",
		"elementFromCritChance",
		"arcaneMineBonus",
		"fireMineBonus",
		"lightningMineBonus",
	}
)

func stanceDefaults() (Config, map[string][]string) {
	return Config{Text: map[string]string{stanceKey: ""}},
		map[string][]string{stanceKey: stanceChoices}
}

// edpsDefinitions model hit damage assuming every hit crits:
//
//	normal:  FLAT × (CHD + DB + SD) × SCHD × WAD × EMulti
//	boss:    normal × BD
//	offhand: hit × (AD + AFFIN) × ED
//
// Percent inputs are whole percents, the multipliers are ratios.
func edpsDefinitions() []Definition {
	additiveDefaults, additiveChoices := stanceDefaults()
	critDefaults, critChoices := stanceDefaults()

	return []Definition{
		{
			ID:          "edpsFlat",
			Name:        "FLAT",
			Category:    CategoryEDPS,
			Layer:       LayerTertiary,
			Description: "Gear damage plus health conversion and monogram flat damage",
			Deps:        flatSources,
			Compute: func(v, _ Reader, _ Config) float64 {
				return math.Floor(sum(v, flatSources))
			},
			Format: formatFlat,
		},
		{
			ID:          "edpsAdditiveMulti",
			Name:        "CHD + DB + SD",
			Category:    CategoryEDPS,
			Layer:       LayerTertiary,
			Description: "Additive bucket: crit damage, damage bonus, stance damage and monogram damage",
			Deps:        slices.Concat(additiveSources, stanceIDs(stanceDamageID)),
			Defaults:    additiveDefaults,
			Choices:     additiveChoices,
			Compute: func(v, _ Reader, cfg Config) float64 {
				return (sum(v, additiveSources) + stanceValue(v, cfg, stanceDamageID)) / 100
			},
			Format: formatMultiplier,
		},
		{
			ID:          "edpsSCHD",
			Name:        "SCHD",
			Category:    CategoryEDPS,
			Layer:       LayerTertiary,
			Description: "Stance crit damage multiplier",
			Deps:        slices.Concat(stanceCritSources, stanceIDs(stanceCritDamageID)),
			Defaults:    critDefaults,
			Choices:     critChoices,
			Compute: func(v, _ Reader, cfg Config) float64 {
				return 1 + (stanceValue(v, cfg, stanceCritDamageID)+sum(v, stanceCritSources))/100
			},
			Format: formatMultiplier,
		},
		{
			ID:          "edpsWAD",
			Name:        "WAD",
			Category:    CategoryEDPS,
			Layer:       LayerTertiary,
			Description: "Weapon ability damage: primary 200%, secondary 400%, plus bonuses",
			Defaults: Config{
				Num: map[string]float64{
					"primaryBase":   200,
					"secondaryBase": 400,
					"wadBonus":      0,
				},
				Flag: map[string]bool{"useSecondary": false},
			},
			Compute: func(_, _ Reader, cfg Config) float64 {
				base := cfg.Float("primaryBase")
				if cfg.Bool("useSecondary") {
					base = cfg.Float("secondaryBase")
				}
				return (base + cfg.Float("wadBonus")) / 100
			},
			Format: formatMultiplier,
		},
		{
			ID:          "edpsEMulti",
			Name:        "EMulti",
			Category:    CategoryEDPS,
			Layer:       LayerTertiary,
			Description: "Independent multipliers: class weapon, distance procs, shroud flat damage",
			Deps:        []string{"distanceProcsDamageBonus", "distanceProcsNearDamageBonus", "shroudFlatDamageBonus"},
			Defaults:    Config{Num: map[string]float64{"classWeaponBonus": 0}},
			Compute: func(v, _ Reader, cfg Config) float64 {
				// The distance procs are exclusive; only the larger one applies.
				distance := math.Max(v.Get("distanceProcsDamageBonus"), v.Get("distanceProcsNearDamageBonus"))
				return (1 + cfg.Float("classWeaponBonus")/100) *
					(1 + distance/100) *
					(1 + v.Get("shroudFlatDamageBonus")/100)
			},
			Format: formatMultiplier,
		},
		{
			ID:          "edpsBD",
			Name:        "BD",
			Category:    CategoryEDPS,
			Layer:       LayerTertiary,
			Description: "Boss and elite damage multiplier",
			Deps:        []string{"bossBonus", "phasingBossDamageBonus"},
			Compute: func(v, _ Reader, _ Config) float64 {
				return 1 + (v.Get("bossBonus")+v.Get("phasingBossDamageBonus"))/100
			},
			Format: formatMultiplier,
		},
		{
			ID:          "edpsED",
			Name:        "ED",
			Category:    CategoryEDPS,
			Layer:       LayerTertiary,
			Description: "Elemental damage multiplier, all sources additive",
			Deps:        elementSources,
			Compute: func(v, _ Reader, _ Config) float64 {
				return 1 + sum(v, elementSources)/100
			},
			Format: formatMultiplier,
		},
		{
			ID:          "edpsAD",
			Name:        "AD + AFFIN",
			Category:    CategoryEDPS,
			Layer:       LayerTertiary,
			Description: "Offhand ability damage plus skill tree affinity",
			Defaults: Config{Num: map[string]float64{
				"abilityDamage":  100,
				"affinityDamage": 0,
			}},
			Compute: func(_, _ Reader, cfg Config) float64 {
				return (cfg.Float("abilityDamage") + cfg.Float("affinityDamage")) / 100
			},
			Format: formatMultiplier,
		},
		{
			ID:          "edpsDDNormal",
			Name:        "Hit Damage",
			Category:    CategoryEDPSResult,
			Layer:       LayerTertiary,
			Description: "FLAT × (CHD + DB + SD) × SCHD × WAD × EMulti",
			Deps:        []string{"edpsFlat", "edpsAdditiveMulti", "edpsSCHD", "edpsWAD", "edpsEMulti"},
			Compute: func(v, _ Reader, _ Config) float64 {
				return math.Floor(v.Get("edpsFlat") *
					orOne(v.Get("edpsAdditiveMulti")) *
					orOne(v.Get("edpsSCHD")) *
					orOne(v.Get("edpsWAD")) *
					orOne(v.Get("edpsEMulti")))
			},
			Format: formatGrouped,
		},
		{
			ID:          "edpsDDBoss",
			Name:        "Hit Damage (Boss)",
			Category:    CategoryEDPSResult,
			Layer:       LayerTertiary,
			Description: "Hit damage × boss damage",
			Deps:        []string{"edpsDDNormal", "edpsBD"},
			Compute: func(v, _ Reader, _ Config) float64 {
				return math.Floor(v.Get("edpsDDNormal") * orOne(v.Get("edpsBD")))
			},
			Format: formatGrouped,
		},
		offhand("edpsOffhandNormal", "Offhand Damage", "edpsDDNormal"),
		offhand("edpsOffhandBoss", "Offhand Damage (Boss)", "edpsDDBoss"),
	}
}

func offhand(id, name, hit string) Definition {
	return Definition{
		ID:          id,
		Name:        name,
		Category:    CategoryEDPSResult,
		Layer:       LayerTertiary,
		Description: "Hit damage × (AD + AFFIN) × elemental damage",
		Deps:        []string{hit, "edpsAD", "edpsED"},
		Compute: func(v, _ Reader, _ Config) float64 {
			return math.Floor(v.Get(hit) * orOne(v.Get("edpsAD")) * orOne(v.Get("edpsED")))
		},
		Format: formatGrouped,
	}
}
