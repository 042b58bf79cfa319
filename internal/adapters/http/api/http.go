// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/matcha/internal/adapters/repository"
	"github.com/okian/matcha/internal/domain/catalog"
	"github.com/okian/matcha/internal/domain/model"
	"github.com/okian/matcha/internal/domain/rules"
	"github.com/okian/matcha/internal/domain/suitability"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Evaluate scores one seeker selection against one posting synchronously.
	Evaluate(ctx context.Context, seekerKeywordIDs []int64, postingKeywords []catalog.KeywordRecord) suitability.Result

	// Rule management.
	ReplaceRules(ctx context.Context, cfg *rules.Config)
	Rules() *rules.Config

	// Posting registration. Returns true when the posting is new.
	AddPosting(ctx context.Context, p model.Posting) bool

	// EnqueueMatches fans out match tasks. Returns false on backpressure.
	EnqueueMatches(ctx context.Context, seekerID string, keywordIDs []int64) (int, bool)

	// Read operations expose match board data.
	TopMatches(ctx context.Context, seekerID string, n int) ([]model.MatchEntry, error)
	Match(ctx context.Context, seekerID, postingID string) (model.MatchEntry, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	evaluateHandler *EvaluateHandler
	postingsHandler *PostingsHandler
	matchHandler    *MatchHandler
	rulesHandler    *RulesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxMatchLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		evaluateHandler: NewEvaluateHandler(deps),
		postingsHandler: NewPostingsHandler(deps),
		matchHandler:    NewMatchHandler(deps, maxMatchLimit),
		rulesHandler:    NewRulesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/evaluate", MetricsMiddleware(s.evaluateHandler.HandleEvaluate, "evaluate"))
	mux.HandleFunc("/postings", MetricsMiddleware(s.postingsHandler.HandleUpsertPosting, "postings"))
	mux.HandleFunc("/match", MetricsMiddleware(s.matchHandler.HandleEnqueueMatch, "match"))
	mux.HandleFunc("/matches/", MetricsMiddleware(s.matchHandler.HandleGetMatches, "matches"))
	mux.HandleFunc("/rules", MetricsMiddleware(s.rulesHandler.HandleRules, "rules"))
}

// keywordPayload mirrors the OpenAPI schema for a posting keyword.
type keywordPayload struct {
	ID       int64  `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

func (k keywordPayload) validate() error {
	switch {
	case k.ID <= 0:
		return errors.New("keyword id must be positive")
	case strings.TrimSpace(k.Label) == "":
		return errors.New("missing keyword label")
	case strings.TrimSpace(k.Category) == "":
		return errors.New("missing keyword category")
	}
	return nil
}

func (k keywordPayload) toRecord() catalog.KeywordRecord {
	return catalog.KeywordRecord{
		ID:       k.ID,
		Label:    k.Label,
		Category: catalog.Category(k.Category),
	}
}

func toRecords(payloads []keywordPayload) ([]catalog.KeywordRecord, error) {
	records := make([]catalog.KeywordRecord, 0, len(payloads))
	for _, p := range payloads {
		if err := p.validate(); err != nil {
			return nil, err
		}
		records = append(records, p.toRecord())
	}
	return records, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, ErrNotFound)
}
