package stats

import "math"

// overcrit returns the crit chance above threshold, counting essence crit.
func overcrit(v Reader, threshold float64) float64 {
	return math.Max(0, v.Get("critChance")+v.Get("critChanceFromEssence")-threshold)
}

func tertiaryDefinitions() []Definition {
	return []Definition{
		ratioOf("chainedHealthBonus", "Health Bonus (Chain)",
			"Health per ratio points of the chained elemental bonus",
			CategoryChained, LayerTertiary,
			[]string{"chainedElementalBonus", "totalVitality"}, 5, 10, false, formatSigned),
		{
			ID:          "critChanceFromEssence",
			Name:        "Crit Chance (Essence)",
			Category:    CategoryMonogramChain,
			Layer:       LayerTertiary,
			Description: "Crit chance per essencePerCrit essence",
			Percent:     true,
			Deps:        []string{"essence"},
			Defaults:    Config{Num: map[string]float64{"essencePerCrit": 20}},
			Compute: func(v, _ Reader, cfg Config) float64 {
				if !cfg.Enabled {
					return 0
				}
				return per(v.Get("essence"), cfg.Float("essencePerCrit"))
			},
			Format: formatSignedPercent,
		},
		{
			ID:          "elementFromCritChance",
			Name:        "Element (Overcrit)",
			Category:    CategoryMonogramChain,
			Layer:       LayerTertiary,
			Description: "Elemental damage per point of crit chance above the threshold",
			Percent:     true,
			Deps:        []string{"critChance", "critChanceFromEssence"},
			Defaults: Config{
				Num: map[string]float64{
					"critThreshold":  100,
					"elementPerCrit": 3,
				},
				Text: map[string]string{"elementType": "fire"},
			},
			Choices: map[string][]string{"elementType": {"fire", "arcane", "lightning"}},
			Compute: func(v, _ Reader, cfg Config) float64 {
				if !cfg.Enabled {
					return 0
				}
				return overcrit(v, cfg.Float("critThreshold")) * cfg.Float("elementPerCrit")
			},
			Format: formatSignedPercent,
		},
		{
			ID:          "lifeBonusFromCritChance",
			Name:        "Life (Overcrit)",
			Category:    CategoryMonogramChain,
			Layer:       LayerTertiary,
			Description: "Life bonus per point of crit chance above the threshold",
			Percent:     true,
			Deps:        []string{"critChance", "critChanceFromEssence"},
			Defaults: Config{Num: map[string]float64{
				"critThreshold": 100,
				"lifePerCrit":   1,
			}},
			Compute: func(v, _ Reader, cfg Config) float64 {
				if !cfg.Enabled {
					return 0
				}
				return overcrit(v, cfg.Float("critThreshold")) * cfg.Float("lifePerCrit")
			},
			Format: formatSignedPercent,
		},
		{
			ID:          "lifeFromElement",
			Name:        "Life (Element)",
			Category:    CategoryMonogramChain,
			Layer:       LayerTertiary,
			Description: "Life bonus per elementPer points of overcrit element",
			Percent:     true,
			Deps:        []string{"elementFromCritChance"},
			Defaults: Config{Num: map[string]float64{
				"elementPer": 30,
				"lifeBonus":  2,
			}},
			Compute: func(v, _ Reader, cfg Config) float64 {
				if !cfg.Enabled {
					return 0
				}
				return per(v.Get("elementFromCritChance"), cfg.Float("elementPer")) * cfg.Float("lifeBonus")
			},
			Format: formatSignedPercent,
		},
		{
			ID:          "damageFromLife",
			Name:        "Damage (Life)",
			Category:    CategoryMonogramChain,
			Layer:       LayerTertiary,
			Description: "Flat damage from a percentage of life after life bonuses",
			Deps:        []string{"totalHealth", "lifeBuffBonus", "lifeFromElement"},
			Defaults:    Config{Num: map[string]float64{"lifePercent": 1}},
			Compute: func(v, _ Reader, cfg Config) float64 {
				if !cfg.Enabled {
					return 0
				}
				bonus := v.Get("lifeBuffBonus") + v.Get("lifeFromElement")
				life := math.Floor(v.Get("totalHealth") * (1 + bonus/100))
				return math.Floor(life * cfg.Float("lifePercent") / 100)
			},
			Format: formatSigned,
		},
	}
}
