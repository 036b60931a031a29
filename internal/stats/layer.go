package stats

import "fmt"

// Layer is an evaluation stage. A formula may read only stats of a lower
// layer or stats declared earlier within its own layer.
type Layer int

const (
	LayerBase      Layer = iota // raw inputs, no compute step
	LayerTotals                 // base × (1 + bonus%)
	LayerPrimary                // first-order derived
	LayerSecondary              // second-order derived
	LayerTertiary               // third-order derived and damage aggregation

	layerCount = 5
)

var layerNames = [layerCount]string{
	"base",
	"totals",
	"primary_derived",
	"secondary_derived",
	"tertiary_derived",
}

// Valid reports whether l is one of the known layers.
func (l Layer) Valid() bool {
	return l >= LayerBase && l < layerCount
}

func (l Layer) String() string {
	if !l.Valid() {
		return fmt.Sprintf("layer(%d)", int(l))
	}
	return layerNames[l]
}

// Layers returns all layers in evaluation order.
func Layers() []Layer {
	out := make([]Layer, layerCount)
	for i := range out {
		out[i] = Layer(i)
	}
	return out
}
