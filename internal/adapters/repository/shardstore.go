package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/okian/matcha/internal/domain/model"
	"github.com/okian/matcha/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultShardCount = 8
)

// matchRecord is the stored state for one (seeker, posting) pair.
type matchRecord struct {
	score int
	level string
}

// shard holds the match entries for a subset of seekers.
type shard struct {
	mu      sync.RWMutex
	seekers map[string]map[string]matchRecord // seekerID -> postingID -> record
}

// ShardedStore implements Store with per-seeker sharding. Seeker match
// sets are independent, so sharding by seeker id keeps write contention
// between concurrently scored seekers low.
type ShardedStore struct {
	shardCount int
	shards     []*shard

	postingsMu sync.RWMutex
	postings   map[string]model.Posting

	seekerCountMu sync.Mutex
	seekerCount   int
}

// NewShardedStore creates a sharded in-memory store.
func NewShardedStore(ctx context.Context, opts ...Option) *ShardedStore {
	s := &ShardedStore{
		shardCount: defaultShardCount,
		postings:   make(map[string]model.Posting),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{seekers: make(map[string]map[string]matchRecord)}
	}
	return s
}

func (s *ShardedStore) shardFor(seekerID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seekerID))
	return s.shards[h.Sum32()%uint32(s.shardCount)]
}

// UpsertPosting registers or replaces a posting.
func (s *ShardedStore) UpsertPosting(ctx context.Context, p model.Posting) bool {
	s.postingsMu.Lock()
	defer s.postingsMu.Unlock()

	_, existed := s.postings[p.ID]
	s.postings[p.ID] = p
	metrics.UpdateTotalPostings(len(s.postings))
	return !existed
}

// Posting returns one posting by id.
func (s *ShardedStore) Posting(ctx context.Context, id string) (model.Posting, error) {
	s.postingsMu.RLock()
	defer s.postingsMu.RUnlock()

	p, ok := s.postings[id]
	if !ok {
		return model.Posting{}, ErrNotFound
	}
	return p, nil
}

// Postings returns all registered postings in stable id order.
func (s *ShardedStore) Postings(ctx context.Context) []model.Posting {
	s.postingsMu.RLock()
	defer s.postingsMu.RUnlock()

	out := make([]model.Posting, 0, len(s.postings))
	for _, p := range s.postings {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PostingCount returns the number of registered postings.
func (s *ShardedStore) PostingCount(ctx context.Context) int {
	s.postingsMu.RLock()
	defer s.postingsMu.RUnlock()
	return len(s.postings)
}

// UpdateMatch records the score for a (seeker, posting) pair.
func (s *ShardedStore) UpdateMatch(ctx context.Context, seekerID, postingID string, score int, level string) (bool, error) {
	sh := s.shardFor(seekerID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	board, ok := sh.seekers[seekerID]
	if !ok {
		board = make(map[string]matchRecord)
		sh.seekers[seekerID] = board
		s.seekerCountMu.Lock()
		s.seekerCount++
		metrics.UpdateTotalSeekers(s.seekerCount)
		s.seekerCountMu.Unlock()
	}

	prev, existed := board[postingID]
	next := matchRecord{score: score, level: level}
	if existed && prev == next {
		return false, nil
	}
	board[postingID] = next
	metrics.RecordMatchUpdate()
	return true, nil
}

// Match returns the ranked entry for one (seeker, posting) pair.
func (s *ShardedStore) Match(ctx context.Context, seekerID, postingID string) (model.MatchEntry, error) {
	entries, err := s.rankedEntries(seekerID)
	if err != nil {
		return model.MatchEntry{}, err
	}
	for _, e := range entries {
		if e.PostingID == postingID {
			return e, nil
		}
	}
	return model.MatchEntry{}, ErrNotFound
}

// TopMatches returns the seeker's best n postings.
func (s *ShardedStore) TopMatches(ctx context.Context, seekerID string, n int) ([]model.MatchEntry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	entries, err := s.rankedEntries(seekerID)
	if err != nil {
		return nil, err
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// SeekerCount returns the number of seekers on the match board.
func (s *ShardedStore) SeekerCount(ctx context.Context) int {
	s.seekerCountMu.Lock()
	defer s.seekerCountMu.Unlock()
	return s.seekerCount
}

// rankedEntries snapshots and ranks one seeker's board. Boards are
// small (one entry per scored posting) so sorting at query time beats
// maintaining an ordered structure under write load.
func (s *ShardedStore) rankedEntries(seekerID string) ([]model.MatchEntry, error) {
	sh := s.shardFor(seekerID)
	sh.mu.RLock()
	board, ok := sh.seekers[seekerID]
	if !ok {
		sh.mu.RUnlock()
		return nil, ErrNotFound
	}
	entries := make([]model.MatchEntry, 0, len(board))
	for postingID, rec := range board {
		entries = append(entries, model.MatchEntry{
			PostingID: postingID,
			Score:     rec.score,
			Level:     rec.level,
		})
	}
	sh.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].PostingID < entries[j].PostingID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
