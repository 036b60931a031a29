package calcserver

import (
	"net/http"

	"github.com/invopop/jsonschema"

	"github.com/udisondev/statcalc/internal/monogram"
	"github.com/udisondev/statcalc/internal/stats"
)

// buildDocument mirrors the wire form of build.Build. Overrides are flat
// objects on the wire, which reflection over stats.Patch cannot express.
type buildDocument struct {
	Name      string                    `json:"name,omitempty" jsonschema:"description=Build name; ignored by /api/calculate"`
	BaseStats map[string]float64        `json:"base_stats" jsonschema:"description=Input stat id to summed raw value; percent inputs are whole percents"`
	Sources   map[string][]stats.Source `json:"sources,omitempty" jsonschema:"description=Per-input contributions shown next to input rows"`
	Monograms []monogram.Equipped       `json:"monograms,omitempty" jsonschema:"description=Equipped monograms; repeated ids stack through instanceCount"`
	Overrides map[string]map[string]any `json:"overrides,omitempty" jsonschema:"description=Stat id to flat patch: enabled and instanceCount plus numeric/string/boolean parameters"`
}

// BuildSchema returns the JSON schema of a calculate request.
func BuildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(buildDocument))
	schema.Title = "Stat calculation request"
	schema.Description = "Body of POST /api/calculate, PUT /api/builds/{name} and websocket live frames"
	return schema
}

func (s *Server) handleBuildSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, BuildSchema())
}
