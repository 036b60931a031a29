package stats

import "math"

// pulse deals percentPerStack of an element bonus per stack.
func pulse(element, title string) Definition {
	bonus := element + "DamageBonus"
	mine := element + "MineBonus"
	return Definition{
		ID:          "pulse" + title + "Damage",
		Name:        title + " Pulse",
		Category:    CategoryMonogram,
		Layer:       LayerSecondary,
		Description: title + " pulse proc damage from " + element + " bonus and mine stacks",
		Percent:     true,
		Deps:        []string{bonus, mine},
		Defaults: Config{Num: map[string]float64{
			"percentPerStack": 3,
			"maxStacks":       100,
			"currentStacks":   100,
		}},
		Compute: func(v, _ Reader, cfg Config) float64 {
			if !cfg.Enabled {
				return 0
			}
			return stacks(cfg) * cfg.Float("percentPerStack") / 100 * (v.Get(bonus) + v.Get(mine))
		},
		Format: formatPercent,
	}
}

func secondaryDefinitions() []Definition {
	return []Definition{
		{
			ID:          "finalDamage",
			Name:        "Final Damage",
			Category:    CategoryFinal,
			Layer:       LayerSecondary,
			Description: "Total damage from all flat sources",
			Deps:        []string{"totalDamage", "damageFromHealth"},
			Compute: func(v, _ Reader, _ Config) float64 {
				return math.Floor(v.Get("totalDamage") + v.Get("damageFromHealth"))
			},
			Format: formatFlat,
		},
		ratioOf("chainedElementalBonus", "Elemental Bonus (Chain)",
			"Elemental damage bonus per point of monogram value",
			CategoryChained, LayerSecondary,
			[]string{"monogramValueFromStrength"}, 1, 2, false, formatSignedPercent),
		ratioOf("statBonusFromPotions", "Damage% (Potions)",
			"Damage bonus per extra potion slot",
			CategoryChained, LayerSecondary,
			[]string{"potionSlotsFromAttributes"}, 1, 5, false, formatSignedPercent),

		perStack("phasingDamageBonus", "Phasing Damage", "Damage bonus per phasing stack",
			"phasingStacks", "damagePerStack", 1, LayerSecondary, formatSignedPercent),
		perStack("phasingBossDamageBonus", "Phasing Boss Damage", "Boss damage per phasing stack",
			"phasingStacks", "bossDamagePerStack", 0.5, LayerSecondary, formatSignedPercent1),
		perStack("bloodlustCritDamageBonus", "Bloodlust Crit Damage", "Crit damage per bloodlust stack",
			"bloodlustStacks", "critDamagePerStack", 5, LayerSecondary, formatSignedPercent),
		perStack("bloodlustAttackSpeedBonus", "Bloodlust Attack Speed", "Attack speed per bloodlust stack",
			"bloodlustStacks", "attackSpeedPerStack", 3, LayerSecondary, formatSignedPercent),
		perStack("bloodlustMoveSpeedBonus", "Bloodlust Move Speed", "Movement speed per bloodlust stack",
			"bloodlustStacks", "moveSpeedPerStack", 1, LayerSecondary, formatSignedPercent),
		{
			ID:          "essence",
			Name:        "Essence",
			Category:    CategoryMonogram,
			Layer:       LayerSecondary,
			Description: "Highest attribute scaled by dark essence, proportional below the threshold",
			Deps:        []string{"darkEssenceStacks", "highestAttribute"},
			Defaults: Config{Num: map[string]float64{
				"multiplier":      1.25,
				"thresholdStacks": 500,
			}},
			Compute: func(v, _ Reader, cfg Config) float64 {
				n := v.Get("darkEssenceStacks")
				full := v.Get("highestAttribute") * cfg.Float("multiplier")
				threshold := cfg.Float("thresholdStacks")
				if n <= 0 {
					return 0
				}
				if threshold > 0 && n < threshold {
					return math.Floor(n / threshold * full)
				}
				return math.Floor(full)
			},
			Format: formatFlat,
		},
		perStack("lifeBuffBonus", "Life Buff", "Life bonus per life buff stack",
			"lifeBuffStacks", "lifePerStack", 1, LayerSecondary, formatSignedPercent),
		{
			ID:          "bloodlustLifeBonus",
			Name:        "Bloodlust Life",
			Category:    CategoryMonogram,
			Layer:       LayerSecondary,
			Description: "Life bonus per life stack per interval of the highest attribute",
			Percent:     true,
			Deps:        []string{"lifeBuffStacks", "highestAttribute"},
			Defaults: Config{Num: map[string]float64{
				"lifePerStackPer50": 0.1,
				"statInterval":      50,
			}},
			Compute: func(v, _ Reader, cfg Config) float64 {
				if !cfg.Enabled || cfg.Float("statInterval") <= 0 {
					return 0
				}
				return v.Get("lifeBuffStacks") * cfg.Float("lifePerStackPer50") *
					(v.Get("highestAttribute") / cfg.Float("statInterval"))
			},
			Format: formatSignedPercent,
		},
		perStack("shroudLifeBonus", "Shroud Life", "Life bonus per shroud stack",
			"shroudStacks", "lifePerStack", 3, LayerSecondary, formatSignedPercent),

		asFlat(perStack("paragonArmorBonus", "Paragon Armor", "Armor per paragon level",
			"paragonLevel", "armorPerLevel", 15, LayerSecondary, formatSigned)),
		asFlat(perStack("paragonDamageBonus", "Paragon Damage", "Flat damage per paragon level",
			"paragonLevel", "damagePerLevel", 2, LayerSecondary, formatSigned)),
		asFlat(perStack("paragonHpBonus", "Paragon Health", "Health per paragon level",
			"paragonLevel", "hpPerLevel", 10, LayerSecondary, formatSigned)),

		perStack("shroudDamageBonus", "Shroud Damage", "Damage bonus per shroud stack",
			"shroudStacks", "damagePerStack", 5, LayerSecondary, formatSignedPercent),
		perStack("shroudFlatDamageBonus", "Shroud Flat Damage%", "Separate damage multiplier per shroud stack",
			"shroudStacks", "flatDamagePerStack", 1, LayerSecondary, formatSignedPercent),
		perStack("bloodlustDrawBloodBonus", "Draw Blood", "Damage bonus per bloodlust stack",
			"bloodlustStacks", "damagePerStack", 1, LayerSecondary, formatSignedPercent),

		withDrawback(Definition{
			ID:          "damageNoPotionBonus",
			Name:        "Damage% (No Potions)",
			Category:    CategoryMonogram,
			Layer:       LayerSecondary,
			Description: "Damage bonus per potion slot, potions are disabled",
			Percent:     true,
			Deps:        []string{"potionSlotsFromAttributes"},
			Defaults: Config{Num: map[string]float64{
				"damagePerSlot":   5,
				"basePotionSlots": 3,
			}},
			Compute: func(v, _ Reader, cfg Config) float64 {
				if !cfg.Enabled {
					return 0
				}
				slots := cfg.Float("basePotionSlots") + v.Get("potionSlotsFromAttributes")
				return slots * cfg.Float("damagePerSlot")
			},
			Format: formatSignedPercent,
		}, "Cannot use potions"),

		pulse("arcane", "Arcane"),
		pulse("fire", "Fire"),
		pulse("lightning", "Lightning"),
	}
}
