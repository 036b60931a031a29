package stats

// Category groups stats for presentation. It never affects evaluation order.
type Category string

const (
	CategoryAttributes      Category = "attributes"
	CategoryTotals          Category = "totals"
	CategoryOffense         Category = "offense"
	CategoryStance          Category = "stance"
	CategoryDefense         Category = "defense"
	CategoryElemental       Category = "elemental"
	CategoryAbilities       Category = "abilities"
	CategoryUtility         Category = "utility"
	CategoryMonogram        Category = "monogram"
	CategoryMonogramDisplay Category = "monogram-display"
	CategoryMonogramChain   Category = "monogram-chain"
	CategoryConversion      Category = "conversion"
	CategoryFinal           Category = "final"
	CategoryEDPS            Category = "edps"
	CategoryEDPSResult      Category = "edps-result"
	CategoryUtilityDerived  Category = "utility-derived"
	CategoryChained         Category = "chained"
)

var knownCategories = map[Category]struct{}{
	CategoryAttributes:      {},
	CategoryTotals:          {},
	CategoryOffense:         {},
	CategoryStance:          {},
	CategoryDefense:         {},
	CategoryElemental:       {},
	CategoryAbilities:       {},
	CategoryUtility:         {},
	CategoryMonogram:        {},
	CategoryMonogramDisplay: {},
	CategoryMonogramChain:   {},
	CategoryConversion:      {},
	CategoryFinal:           {},
	CategoryEDPS:            {},
	CategoryEDPSResult:      {},
	CategoryUtilityDerived:  {},
	CategoryChained:         {},
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := knownCategories[c]
	return ok
}
