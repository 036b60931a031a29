package calcserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/udisondev/statcalc/internal/build"
	"github.com/udisondev/statcalc/internal/monogram"
	"github.com/udisondev/statcalc/internal/stats"
)

var errBadRequest = errors.New("bad request")

// StatInfo describes one registered stat.
type StatInfo struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Category    stats.Category      `json:"category"`
	Layer       stats.Layer         `json:"layer"`
	LayerName   string              `json:"layer_name"`
	Percent     bool                `json:"percent"`
	Description string              `json:"description,omitempty"`
	Deps        []string            `json:"deps,omitempty"`
	Choices     map[string][]string `json:"choices,omitempty"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var b build.Build
	if err := decodeBody(w, r, &b); err != nil {
		writeError(w, err)
		return
	}
	ev, err := s.svc.Evaluate(r.Context(), &b)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleCalculateBatch(w http.ResponseWriter, r *http.Request) {
	var builds []*build.Build
	if err := decodeBody(w, r, &builds); err != nil {
		writeError(w, err)
		return
	}
	evs, err := s.svc.EvaluateMany(r.Context(), builds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evs)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	category := stats.Category(r.URL.Query().Get("category"))
	layer := -1
	if raw := r.URL.Query().Get("layer"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || !stats.Layer(n).Valid() {
			writeError(w, fmt.Errorf("%w: layer %q", errBadRequest, raw))
			return
		}
		layer = n
	}

	out := make([]StatInfo, 0, s.svc.Registry().Len())
	for _, def := range s.svc.Registry().CalculationOrder() {
		if category != "" && def.Category != category {
			continue
		}
		if layer >= 0 && int(def.Layer) != layer {
			continue
		}
		out = append(out, StatInfo{
			ID:          def.ID,
			Name:        def.Name,
			Category:    def.Category,
			Layer:       def.Layer,
			LayerName:   def.Layer.String(),
			Percent:     def.Percent,
			Description: def.Description,
			Deps:        def.Deps,
			Choices:     def.Choices,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	chain, err := s.svc.Chain(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "chain": chain})
}

func (s *Server) handleMonograms(w http.ResponseWriter, r *http.Request) {
	c := s.svc.Catalog()
	var ids []string
	if statID := r.URL.Query().Get("stat"); statID != "" {
		ids = c.ForStat(statID)
	} else {
		ids = c.IDs()
	}
	out := make([]*monogram.Monogram, 0, len(ids))
	for _, id := range ids {
		if m, ok := c.Get(id); ok {
			out = append(out, m)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListBuilds(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []build.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetBuild(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handlePutBuild(w http.ResponseWriter, r *http.Request) {
	var b build.Build
	if err := decodeBody(w, r, &b); err != nil {
		writeError(w, err)
		return
	}
	b.Name = r.PathValue("name")
	if err := s.svc.Save(r.Context(), &b); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBuild(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), r.PathValue("name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvaluateBuild(w http.ResponseWriter, r *http.Request) {
	ev, err := s.svc.EvaluateSaved(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

type errorBody struct {
	Error string `json:"error"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decoding body: %w", errBadRequest, err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, build.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, build.ErrInvalid),
		errors.Is(err, build.ErrInvalidName),
		errors.Is(err, stats.ErrInvalidOverride),
		errors.Is(err, stats.ErrNonFinite):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// writeJSON encodes v before the status line goes out, so an encoding
// failure still reaches the client as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("encoding response", "err", err)
		status = http.StatusInternalServerError
		data, _ = json.Marshal(errorBody{Error: "encoding response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		slog.Warn("writing response", "err", err)
	}
}
