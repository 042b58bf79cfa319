// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/matcha/internal/domain/catalog"
	"github.com/okian/matcha/internal/domain/suitability"
)

// EvaluateDependencies defines the interface for synchronous scoring.
type EvaluateDependencies interface {
	Evaluate(ctx context.Context, seekerKeywordIDs []int64, postingKeywords []catalog.KeywordRecord) suitability.Result
}

// EvaluateHandler handles synchronous evaluation requests.
type EvaluateHandler struct {
	deps EvaluateDependencies
}

// NewEvaluateHandler creates a new evaluate handler.
func NewEvaluateHandler(deps EvaluateDependencies) *EvaluateHandler {
	return &EvaluateHandler{deps: deps}
}

// evaluateRequest mirrors the OpenAPI schema for POST /evaluate.
type evaluateRequest struct {
	SeekerKeywordIDs []int64          `json:"seeker_keyword_ids"`
	PostingKeywords  []keywordPayload `json:"posting_keywords"`
}

func (e evaluateRequest) validate() error {
	// An empty selection is a valid input; scoring is total and simply
	// degenerates to the gated floor.
	for _, id := range e.SeekerKeywordIDs {
		if id <= 0 {
			return errors.New("seeker keyword ids must be positive")
		}
	}
	return nil
}

// HandleEvaluate handles POST /evaluate requests.
func (h *EvaluateHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "api.evaluate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	records, err := toRecords(req.PostingKeywords)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result := h.deps.Evaluate(r.Context(), req.SeekerKeywordIDs, records)
	writeJSON(w, http.StatusOK, result)
}
