// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/matcha/internal/domain/model"
)

// PostingDependencies defines the interface for posting registration.
type PostingDependencies interface {
	AddPosting(ctx context.Context, p model.Posting) bool
}

// PostingsHandler handles posting registration requests.
type PostingsHandler struct {
	deps PostingDependencies
}

// NewPostingsHandler creates a new postings handler.
func NewPostingsHandler(deps PostingDependencies) *PostingsHandler {
	return &PostingsHandler{deps: deps}
}

// postingRequest mirrors the OpenAPI schema for POST /postings.
type postingRequest struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Keywords []keywordPayload `json:"keywords"`
}

func (p postingRequest) validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("missing id")
	}
	return nil
}

type postingResponse struct {
	Status  string `json:"status"`
	Created bool   `json:"created"`
}

// HandleUpsertPosting handles POST /postings requests.
func (h *PostingsHandler) HandleUpsertPosting(w http.ResponseWriter, r *http.Request) {
	const op = "api.upsert_posting"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req postingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	records, err := toRecords(req.Keywords)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	created := h.deps.AddPosting(r.Context(), model.Posting{
		ID:       req.ID,
		Title:    req.Title,
		Keywords: records,
	})
	status := "updated"
	code := http.StatusOK
	if created {
		status = "created"
		code = http.StatusCreated
	}
	writeJSON(w, code, postingResponse{Status: status, Created: created})
}
