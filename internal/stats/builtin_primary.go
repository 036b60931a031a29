package stats

import "math"

func asFlat(d Definition) Definition {
	d.Percent = false
	return d
}

// invSlotBonus pays bonusPerSlot for each extra inventory slot. The
// extraSlots parameter wins over the extraInventorySlots input when set.
func invSlotBonus(id, name, desc string, perSlot float64) Definition {
	return Definition{
		ID:          id,
		Name:        name,
		Category:    CategoryMonogram,
		Layer:       LayerPrimary,
		Description: desc,
		Percent:     true,
		Deps:        []string{"extraInventorySlots"},
		Defaults: Config{Num: map[string]float64{
			"bonusPerSlot": perSlot,
			"extraSlots":   0,
		}},
		Compute: func(v, _ Reader, cfg Config) float64 {
			if !cfg.Enabled {
				return 0
			}
			slots := cfg.Float("extraSlots")
			if slots == 0 {
				slots = v.Get("extraInventorySlots")
			}
			return slots * cfg.Float("bonusPerSlot")
		},
		Format: formatSignedPercent,
	}
}

func withDrawback(d Definition, drawback string) Definition {
	d.Defaults.Text = map[string]string{"drawback": drawback}
	return d
}

func primaryDefinitions() []Definition {
	return []Definition{
		// Buff counters come first so that same-layer readers follow them.
		stackCounter("phasingStacks", "Phasing Stacks", "Phasing buff stacks (helmet monogram)", 50),
		stackCounter("bloodlustStacks", "Bloodlust Stacks", "Bloodlust buff stacks (helmet monogram)", 100),
		stackCounter("darkEssenceStacks", "Dark Essence Stacks", "Dark essence stacks (amulet monogram)", 500),
		stackCounter("lifeBuffStacks", "Life Buff Stacks", "Life buff stacks (amulet monogram)", 100),
		stackCounter("shroudStacks", "Shroud Stacks", "Shroud buff stacks (one-hand monogram)", 50),
		toggle("paragonLevel", "Paragon Level", "Paragon level granted by the paragon monograms",
			CategoryMonogram, "level", 0, false, formatFlat),

		{
			ID:          "damageFromHealth",
			Name:        "Damage from Health",
			Category:    CategoryConversion,
			Layer:       LayerPrimary,
			Description: "Flat damage gained from a percentage of total health",
			Deps:        []string{"totalHealth"},
			Defaults: Config{
				Num:  map[string]float64{"percentage": 1},
				Text: map[string]string{sourceStatKey: "totalHealth"},
			},
			Choices: map[string][]string{sourceStatKey: {"totalHealth"}},
			Compute: func(v, _ Reader, cfg Config) float64 {
				return math.Floor(v.Get(cfg.String(sourceStatKey)) * cfg.Float("percentage") / 100)
			},
			Format: formatSigned,
		},
		ratioOf("monogramValueFromStrength", "Monogram Value (STR)",
			"Monogram value gained per ratio points of the source stat",
			CategoryMonogram, LayerPrimary,
			[]string{"totalStrength", "highestAttribute", "bloodlustStacks"},
			100, 1, true, formatFlat),
		{
			ID:          "potionSlotsFromAttributes",
			Name:        "Potion Slots (Stats)",
			Category:    CategoryUtilityDerived,
			Layer:       LayerPrimary,
			Description: "Additional potion slots from the highest attribute",
			Deps:        []string{"highestAttribute"},
			Defaults:    Config{Num: map[string]float64{"ratio": 50}},
			Compute: func(v, _ Reader, cfg Config) float64 {
				return per(v.Get("highestAttribute"), cfg.Float("ratio"))
			},
			Format: formatFlat,
		},

		perHighest("damageCircleLifeBonus", "Damage Circle Life",
			"Life bonus per interval of the highest attribute", "lifePerInterval", 2, 50),
		toggle("distanceProcsDamageBonus", "Distance Procs (Far)",
			"Damage bonus against distant enemies, own multiplier", CategoryMonogram, "bonusPercent", 50, true, formatSignedPercent),
		toggle("distanceProcsNearDamageBonus", "Distance Procs (Near)",
			"Damage bonus against nearby enemies, own multiplier", CategoryMonogram, "bonusPercent", 50, true, formatSignedPercent),
		cappedBonus("eliteAttackSpeedBonus", "Elite Attack Speed",
			"Attack speed per elite kill stack", "attackSpeedPerStack", 3, 10, formatSignedPercent),
		asFlat(cappedBonus("eliteEnergyBonus", "Elite Energy",
			"Energy per elite kill stack", "energyPerStack", 10, 10, formatSigned)),
		toggle("extraLifestealBonus", "Extra Lifesteal",
			"Additional lifesteal", CategoryMonogram, "lifestealPercent", 10, true, formatSignedPercent),
		withDrawback(toggle("flatDamageMonogramBonus", "Flat Damage (Monogram)",
			"Flat damage, incoming hits deal half of max health", CategoryMonogram, "flatDamage", 300, false, formatSigned),
			"Incoming damage deals 50% of max HP"),
		withDrawback(toggle("noEnergyDamageBonus", "Flat Damage (No Energy)",
			"Flat damage, energy is set to 0", CategoryMonogram, "flatDamage", 300, false, formatSigned),
			"Sets energy to 0"),
		perHighest("highestStatDamageBonus", "Damage% (Highest Stat)",
			"Damage bonus per interval of the highest attribute", "damagePerInterval", 1, 50),

		spawnChance("eliteSpawnChance", "Elite Spawn Chance", "Chance for an elite to spawn", 10, 40),
		spawnChance("containerSpawnChance", "Container Spawn Chance", "Chance for a container to spawn", 10, 100),

		{
			ID:          "critDamageFromArmor",
			Name:        "Crit Damage (Armor)",
			Category:    CategoryMonogram,
			Layer:       LayerPrimary,
			Description: "Crit damage per interval of total armor",
			Percent:     true,
			Deps:        []string{"totalArmor"},
			Defaults: Config{Num: map[string]float64{
				"critDamagePerInterval": 1,
				"armorInterval":         500,
			}},
			Compute: func(v, _ Reader, cfg Config) float64 {
				if !cfg.Enabled {
					return 0
				}
				return per(v.Get("totalArmor"), cfg.Float("armorInterval")) * cfg.Float("critDamagePerInterval")
			},
			Format: formatSignedPercent,
		},
		{
			ID:          "energyDamageBonus",
			Name:        "Damage (Energy)",
			Category:    CategoryMonogram,
			Layer:       LayerPrimary,
			Description: "Flat damage per energy above the base pool",
			Deps:        []string{"energy"},
			Defaults: Config{Num: map[string]float64{
				"baseEnergy":      100,
				"damagePerEnergy": 2,
			}},
			Compute: func(v, _ Reader, cfg Config) float64 {
				if !cfg.Enabled {
					return 0
				}
				excess := math.Max(0, v.Get("energy")-cfg.Float("baseEnergy"))
				return excess * cfg.Float("damagePerEnergy")
			},
			Format: formatSigned,
		},
		invSlotBonus("invSlotBossDamageBonus", "Boss Damage (Inventory)", "Boss damage per extra inventory slot", 1),
		invSlotBonus("invSlotCritDamageBonus", "Crit Damage (Inventory)", "Crit damage per extra inventory slot", 5),

		toggle("juggernautMoveSpeed", "Juggernaut Move Speed",
			"Movement speed while juggernaut", CategoryMonogram, "moveSpeedBonus", 40, true, formatSignedPercent),
		toggle("juggernautCritChance", "Juggernaut Crit Chance",
			"Crit chance while juggernaut", CategoryMonogram, "critChanceBonus", 25, true, formatSignedPercent),
		toggle("juggernautCritDamage", "Juggernaut Crit Multiplier",
			"Crit damage multiplier while juggernaut", CategoryMonogram, "critDamageMultiplier", 2, false, formatTimes),

		spawnChance("snailSpawnChance", "Snail Spawn Chance", "Chance for a snail to spawn", 10, 0),
		toggle("lifestealToEnergySteal", "Lifesteal to Energy Steal",
			"Lifesteal is converted into energy steal", CategoryMonogramDisplay, "active", 1, false, formatActive),
		toggle("colossusDoubleAttackSpeed", "Colossus Attack Speed",
			"Attack speed multiplier during colossus", CategoryMonogramDisplay, "multiplier", 2, false, formatTimesOrInactive),
		{
			ID:          "critChanceFromEnergyRegen",
			Name:        "Crit Chance (Energy Regen)",
			Category:    CategoryMonogram,
			Layer:       LayerPrimary,
			Description: "Crit chance per point of energy regeneration",
			Percent:     true,
			Deps:        []string{"energyRegen"},
			Defaults:    Config{Num: map[string]float64{"ratio": 1}},
			Compute: func(v, _ Reader, cfg Config) float64 {
				if !cfg.Enabled {
					return 0
				}
				return v.Get("energyRegen") * cfg.Float("ratio")
			},
			Format: formatSignedPercent,
		},
		perHighest("damagePercentForStat2", "Damage% (Stat II)",
			"Damage bonus per interval of the highest attribute", "damagePerInterval", 1, 50),
		cappedBonus("arcaneMineBonus", "Arcane Mines", "Arcane damage per mine stack", "bonusPerStack", 5, 20, formatSignedPercent),
		cappedBonus("fireMineBonus", "Fire Mines", "Fire damage per mine stack", "bonusPerStack", 5, 20, formatSignedPercent),
		cappedBonus("lightningMineBonus", "Lightning Mines", "Lightning damage per mine stack", "bonusPerStack", 5, 20, formatSignedPercent),
		perHighest("chargedSecondaryDamageBonus", "Charged Secondary Damage",
			"Charged secondary damage per interval of the highest attribute", "bonusPerInterval", 100, 100),
		toggle("shroudMaxStacksMultiplier", "Shroud Transition Multiplier",
			"Damage multiplier on the first hit after a shroud transition", CategoryMonogramDisplay, "multiplier", 2, false, formatTimesOrInactive),
		toggle("doubleBuffLength", "Double Buff Length",
			"Doubles buff durations", CategoryMonogramDisplay, "active", 1, false, formatActive),
		toggle("colossusDamageBonus", "Colossus Damage",
			"Damage while colossus is active", CategoryMonogram, "damageBonus", 70, true, formatSignedPercent),
		invSlotBonus("invSlotDamageBonus", "Damage% (Inventory)", "Damage per extra inventory slot", 2),
	}
}
