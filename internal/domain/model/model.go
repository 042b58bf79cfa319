// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/matcha/internal/domain/catalog"
)

// Posting is a job posting with its attached catalog keywords.
type Posting struct {
	ID       string                  `json:"id"`
	Title    string                  `json:"title"`
	Keywords []catalog.KeywordRecord `json:"keywords"`
}

// MatchTask asks a worker to score one seeker against one posting.
type MatchTask struct {
	TaskID     string    // unique id for idempotency
	SeekerID   string    // job seeker identifier
	KeywordIDs []int64   // the seeker's selected catalog ids
	PostingID  string    // target posting
	EnqueuedAt time.Time // for queue latency accounting
}

// MatchEntry is one row of a seeker's ranked match board.
type MatchEntry struct {
	Rank      int    `json:"rank"`
	PostingID string `json:"posting_id"`
	Score     int    `json:"score"`
	Level     string `json:"level"`
}
