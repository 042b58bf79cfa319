// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/matcha/internal/domain/rules"
)

// RulesDependencies defines the interface for rule management.
type RulesDependencies interface {
	ReplaceRules(ctx context.Context, cfg *rules.Config)
	Rules() *rules.Config
}

// RulesHandler handles rule configuration requests.
type RulesHandler struct {
	deps RulesDependencies
}

// NewRulesHandler creates a new rules handler.
func NewRulesHandler(deps RulesDependencies) *RulesHandler {
	return &RulesHandler{deps: deps}
}

// HandleRules handles GET /rules and PUT /rules requests.
func (h *RulesHandler) HandleRules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGetRules(w, r)
	case http.MethodPut:
		h.handlePutRules(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *RulesHandler) handleGetRules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Rules())
}

func (h *RulesHandler) handlePutRules(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_rules"
	// Start from a deep copy of the active config so partial bodies only
	// override the fields they carry, without the decoder writing through
	// shared maps into the published configuration.
	cfg := h.deps.Rules().Clone()
	if err := json.NewDecoder(r.Body).Decode(cfg); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validateScoreLevels(cfg.ScoreLevels); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.deps.ReplaceRules(r.Context(), cfg)
	writeJSON(w, http.StatusOK, cfg)
}

// validateScoreLevels rejects threshold sets that are not strictly
// descending; anything else makes tier classification ambiguous.
func validateScoreLevels(levels rules.ScoreLevels) error {
	if levels.Perfect <= levels.Excellent ||
		levels.Excellent <= levels.Good ||
		levels.Good <= levels.Fair {
		return errors.New("score levels must be strictly descending")
	}
	return nil
}
