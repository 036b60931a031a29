package stats

import "math"

// attributes feeding highestAttribute, in scan order. Vitality is left out.
var highestAttributeSources = []string{
	"totalStrength",
	"totalDexterity",
	"totalWisdom",
	"totalEndurance",
	"totalAgility",
	"totalLuck",
	"totalStamina",
}

// total is floor(input * (1 + bonus/100)).
func total(input, bonus, name string) Definition {
	return Definition{
		ID:          "total" + name,
		Name:        "Total " + name,
		Category:    CategoryTotals,
		Layer:       LayerTotals,
		Description: name + " after bonuses applied",
		Deps:        []string{input, bonus},
		Compute: func(v, _ Reader, _ Config) float64 {
			return math.Floor(v.Get(input) * (1 + v.Get(bonus)/100))
		},
		Format: formatFlat,
	}
}

func totalDefinitions() []Definition {
	defs := []Definition{
		total("strength", "strengthBonus", "Strength"),
		total("dexterity", "dexterityBonus", "Dexterity"),
		total("wisdom", "wisdomBonus", "Wisdom"),
		total("vitality", "vitalityBonus", "Vitality"),
		total("endurance", "enduranceBonus", "Endurance"),
		total("agility", "agilityBonus", "Agility"),
		total("luck", "luckBonus", "Luck"),
		total("stamina", "staminaBonus", "Stamina"),
		total("armor", "armorBonus", "Armor"),
		total("health", "healthBonus", "Health"),
		total("damage", "damageBonus", "Damage"),
	}

	return append(defs, Definition{
		ID:          "highestAttribute",
		Name:        "Highest Attribute",
		Category:    CategoryTotals,
		Layer:       LayerTotals,
		Description: "The highest primary attribute value",
		Deps:        highestAttributeSources,
		Compute: func(v, _ Reader, _ Config) float64 {
			highest := v.Get(highestAttributeSources[0])
			for _, id := range highestAttributeSources[1:] {
				highest = math.Max(highest, v.Get(id))
			}
			return highest
		},
		Format: formatFlat,
	})
}
