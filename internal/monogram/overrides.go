package monogram

import (
	"log/slog"

	"github.com/udisondev/statcalc/internal/stats"
)

// Equipped is a monogram found on an equipped item.
type Equipped struct {
	ID       string `yaml:"id" json:"id"`
	ItemName string `yaml:"item_name,omitempty" json:"item_name,omitempty"`
	Slot     string `yaml:"slot,omitempty" json:"slot,omitempty"`
}

// BuildOverrides turns the equipped monograms into engine overrides.
//
// The same monogram on several items is applied once; every stat it touches
// gets InstanceCount set to the number of equipped copies of all monograms
// affecting that stat. Effects are merged in first-equipped order, so a
// later monogram wins on conflicting parameters. Unknown ids are returned,
// deduplicated, in the order they were seen.
func (c *Catalog) BuildOverrides(active []Equipped) (stats.Overrides, []string) {
	counts := make(map[string]int, len(active))
	var order, unknown []string
	for _, eq := range active {
		if _, ok := c.byID[eq.ID]; !ok {
			if counts[eq.ID] == 0 {
				unknown = append(unknown, eq.ID)
			}
			counts[eq.ID]++
			continue
		}
		if counts[eq.ID] == 0 {
			order = append(order, eq.ID)
		}
		counts[eq.ID]++
	}

	out := make(stats.Overrides)
	instances := make(map[string]int)
	for _, id := range order {
		for _, e := range c.byID[id].Effects {
			out[e.Stat] = out[e.Stat].Merge(e.Config)
			instances[e.Stat] += counts[id]
		}
	}
	for statID, n := range instances {
		out[statID] = out[statID].WithInstances(n)
	}

	if len(unknown) > 0 {
		slog.Warn("unknown monograms ignored", "ids", unknown)
	}
	return out, unknown
}
