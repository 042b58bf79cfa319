// Package repository defines the posting registry and match board
// interfaces and errors.
package repository

import (
	"context"

	"github.com/okian/matcha/internal/domain/model"
)

// Store provides read/write access to postings and per-seeker match
// results.
type Store interface {
	// UpsertPosting registers or replaces a posting.
	// Returns true when the posting was not previously known.
	UpsertPosting(ctx context.Context, p model.Posting) bool

	// Posting returns one posting by id.
	// Returns ErrNotFound if the posting is unknown.
	Posting(ctx context.Context, id string) (model.Posting, error)

	// Postings returns all registered postings.
	Postings(ctx context.Context) []model.Posting

	// PostingCount returns the number of registered postings.
	PostingCount(ctx context.Context) int

	// UpdateMatch records the score for a (seeker, posting) pair.
	// Returns true when the stored entry changed.
	UpdateMatch(ctx context.Context, seekerID, postingID string, score int, level string) (bool, error)

	// Match returns the ranked entry for one (seeker, posting) pair.
	// Returns ErrNotFound if either side is unknown.
	Match(ctx context.Context, seekerID, postingID string) (model.MatchEntry, error)

	// TopMatches returns the seeker's best n postings ordered by score
	// descending, ties broken by posting id.
	TopMatches(ctx context.Context, seekerID string, n int) ([]model.MatchEntry, error)

	// SeekerCount returns the number of seekers on the match board.
	SeekerCount(ctx context.Context) int
}
