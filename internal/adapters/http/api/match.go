// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/matcha/internal/domain/model"
)

// MatchDependencies defines the interface for match board operations.
type MatchDependencies interface {
	EnqueueMatches(ctx context.Context, seekerID string, keywordIDs []int64) (int, bool)
	TopMatches(ctx context.Context, seekerID string, n int) ([]model.MatchEntry, error)
	Match(ctx context.Context, seekerID, postingID string) (model.MatchEntry, error)
}

// MatchHandler handles match enqueue and read requests.
type MatchHandler struct {
	deps     MatchDependencies
	maxLimit int
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchDependencies, maxLimit int) *MatchHandler {
	return &MatchHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// matchRequest mirrors the OpenAPI schema for POST /match.
type matchRequest struct {
	SeekerID   string  `json:"seeker_id"`
	KeywordIDs []int64 `json:"keyword_ids"`
}

func (m matchRequest) validate() error {
	switch {
	case strings.TrimSpace(m.SeekerID) == "":
		return errors.New("missing seeker_id")
	case len(m.KeywordIDs) == 0:
		return errors.New("missing keyword_ids")
	}
	for _, id := range m.KeywordIDs {
		if id <= 0 {
			return errors.New("keyword ids must be positive")
		}
	}
	return nil
}

type matchAckResponse struct {
	Status   string `json:"status"`
	Enqueued int    `json:"enqueued"`
}

// HandleEnqueueMatch handles POST /match requests.
func (h *MatchHandler) HandleEnqueueMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.enqueue_match"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	enqueued, ok := h.deps.EnqueueMatches(r.Context(), req.SeekerID, req.KeywordIDs)
	if !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, matchAckResponse{Status: "accepted", Enqueued: enqueued})
}

// HandleGetMatches handles GET /matches/{seeker_id}?limit=N requests and
// GET /matches/{seeker_id}/{posting_id} for a single pair.
func (h *MatchHandler) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_matches"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameters after /matches/
	path := strings.TrimPrefix(r.URL.Path, "/matches/")
	if path == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	if seekerID, postingID, ok := strings.Cut(path, "/"); ok {
		h.handleGetMatch(w, r, seekerID, postingID)
		return
	}

	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.TopMatches(r.Context(), path, n)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *MatchHandler) handleGetMatch(w http.ResponseWriter, r *http.Request, seekerID, postingID string) {
	const op = "api.get_match"
	if seekerID == "" || postingID == "" || strings.Contains(postingID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Match(r.Context(), seekerID, postingID)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
