package stats

// Stance ids, in the order the damage buckets scan them.
var stances = []string{"maul", "sword", "archery", "magery", "unarmed", "scythe", "twohand", "spear"}

type inputSpec struct {
	id       string
	name     string
	category Category
	percent  bool
	desc     string
}

var inputSpecs = []inputSpec{
	{"strength", "Strength", CategoryAttributes, false, "Strength from gear and allocation"},
	{"strengthBonus", "Strength Bonus", CategoryAttributes, true, "Percent bonus to strength"},
	{"dexterity", "Dexterity", CategoryAttributes, false, "Dexterity from gear and allocation"},
	{"dexterityBonus", "Dexterity Bonus", CategoryAttributes, true, "Percent bonus to dexterity"},
	{"wisdom", "Wisdom", CategoryAttributes, false, "Wisdom from gear and allocation"},
	{"wisdomBonus", "Wisdom Bonus", CategoryAttributes, true, "Percent bonus to wisdom"},
	{"vitality", "Vitality", CategoryAttributes, false, "Vitality from gear and allocation"},
	{"vitalityBonus", "Vitality Bonus", CategoryAttributes, true, "Percent bonus to vitality"},
	{"endurance", "Endurance", CategoryAttributes, false, "Endurance from gear and allocation"},
	{"enduranceBonus", "Endurance Bonus", CategoryAttributes, true, "Percent bonus to endurance"},
	{"agility", "Agility", CategoryAttributes, false, "Agility from gear and allocation"},
	{"agilityBonus", "Agility Bonus", CategoryAttributes, true, "Percent bonus to agility"},
	{"luck", "Luck", CategoryAttributes, false, "Luck from gear and allocation"},
	{"luckBonus", "Luck Bonus", CategoryAttributes, true, "Percent bonus to luck"},
	{"stamina", "Stamina", CategoryAttributes, false, "Stamina from gear and allocation"},
	{"staminaBonus", "Stamina Bonus", CategoryAttributes, true, "Percent bonus to stamina"},

	{"damage", "Damage", CategoryOffense, false, "Flat weapon and gear damage"},
	{"damageBonus", "Damage Bonus", CategoryOffense, true, "Additive damage bonus"},
	{"critChance", "Crit Chance", CategoryOffense, true, "Critical hit chance"},
	{"critDamage", "Crit Damage", CategoryOffense, true, "Critical hit damage"},
	{"attackSpeed", "Attack Speed", CategoryOffense, true, "Increased attack speed"},
	{"bossBonus", "Boss Damage", CategoryOffense, true, "Damage against bosses and elites"},

	{"armor", "Armor", CategoryDefense, false, "Flat armor"},
	{"armorBonus", "Armor Bonus", CategoryDefense, true, "Percent bonus to armor"},
	{"health", "Health", CategoryDefense, false, "Flat health"},
	{"healthBonus", "Health Bonus", CategoryDefense, true, "Percent bonus to health"},
	{"healthRegen", "Health Regen", CategoryDefense, false, "Health regenerated per second"},
	{"blockChance", "Block Chance", CategoryDefense, true, "Chance to block a hit"},
	{"damageReduction", "Damage Reduction", CategoryDefense, true, "Incoming damage reduction"},

	{"fireDamageBonus", "Fire Damage", CategoryElemental, true, "Fire damage bonus"},
	{"arcaneDamageBonus", "Arcane Damage", CategoryElemental, true, "Arcane damage bonus"},
	{"lightningDamageBonus", "Lightning Damage", CategoryElemental, true, "Lightning damage bonus"},

	{"chainLightningDamage", "Chain Lightning", CategoryAbilities, false, "Chain lightning proc damage"},
	{"fieryTotemDamage", "Fiery Totem", CategoryAbilities, false, "Fiery totem damage"},
	{"dragonFlameDamage", "Dragon Flame", CategoryAbilities, false, "Dragon flame damage"},
	{"enemyDeathDamage", "Death Explosion", CategoryAbilities, false, "Damage dealt when an enemy dies"},

	{"xpBonus", "XP Bonus", CategoryUtility, true, "Experience gain bonus"},
	{"energy", "Energy", CategoryUtility, false, "Maximum energy"},
	{"energyRegen", "Energy Regen", CategoryUtility, false, "Energy regenerated per second"},
	{"extraInventorySlots", "Extra Inventory Slots", CategoryUtility, false, "Bonus inventory slots"},
}

func stanceDamageID(stance string) string     { return stance + "Damage" }
func stanceCritDamageID(stance string) string { return stance + "CritDamage" }
func stanceCritChanceID(stance string) string { return stance + "CritChance" }

func stanceInputs() []inputSpec {
	var out []inputSpec
	for _, s := range stances {
		title := stanceTitle(s)
		out = append(out,
			inputSpec{stanceDamageID(s), title + " Damage", CategoryStance, true, title + " stance damage"},
			inputSpec{stanceCritDamageID(s), title + " Crit Damage", CategoryStance, true, title + " stance crit damage"},
			inputSpec{stanceCritChanceID(s), title + " Crit Chance", CategoryStance, true, title + " stance crit chance"},
		)
	}
	return out
}

func stanceTitle(s string) string {
	if s == "twohand" {
		return "Two-Hand"
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func baseDefinitions() []Definition {
	specs := append(append([]inputSpec{}, inputSpecs...), stanceInputs()...)
	defs := make([]Definition, 0, len(specs))
	for _, s := range specs {
		format := formatSigned
		if s.percent {
			format = formatSignedPercent
		}
		defs = append(defs, Definition{
			ID:          s.id,
			Name:        s.name,
			Category:    s.category,
			Layer:       LayerBase,
			Description: s.desc,
			Percent:     s.percent,
			Format:      format,
		})
	}
	return defs
}
