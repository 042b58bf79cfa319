// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	taskqueue "github.com/okian/matcha/internal/adapters/mq/queue"
	workerpool "github.com/okian/matcha/internal/adapters/mq/worker"
	repository "github.com/okian/matcha/internal/adapters/repository"
	"github.com/okian/matcha/internal/domain/catalog"
	"github.com/okian/matcha/internal/domain/memo"
	"github.com/okian/matcha/internal/domain/model"
	"github.com/okian/matcha/internal/domain/rules"
	"github.com/okian/matcha/internal/domain/suitability"
	"github.com/okian/matcha/pkg/logger"
	"github.com/okian/matcha/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize  = 100000
	defaultMemoSize   = 50000
	defaultShardCount = 8
)

// Service implements the API dependencies for the suitability matching
// system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	queue  taskqueue.Queue
	engine *suitability.Engine
	cache  memo.Cache
	pool   *workerpool.Pool

	// Configuration
	workerCount    int
	queueSize      int
	memoSize       int
	shardCount     int
	rulesCfg       *rules.Config
	catalogRecords []catalog.KeywordRecord

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the task queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMemoSize sets the size of the evaluation result cache.
func WithMemoSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.memoSize = size
		}
	}
}

// WithShardCount sets the number of match board shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRules sets the initial rule configuration.
func WithRules(cfg *rules.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.rulesCfg = cfg
		}
	}
}

// WithCatalog sets the keyword catalog used to resolve seeker ids.
func WithCatalog(records []catalog.KeywordRecord) Option {
	return func(s *Service) {
		if len(records) > 0 {
			s.catalogRecords = records
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:      defaultQueueSize,
		memoSize:       defaultMemoSize,
		shardCount:     defaultShardCount,
		rulesCfg:       rules.Default(),
		catalogRecords: catalog.Seed(),
		stopCh:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	// The engine and the memo cache have no lifecycle of their own;
	// build them here so Evaluate and ReplaceRules work on an unstarted
	// Service.
	s.cache = memo.NewInMemoryCache(memo.WithMaxSize(s.memoSize))
	s.engine = suitability.New(s.rulesCfg, suitability.WithCatalog(s.catalogRecords))
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting suitability service...")

	s.store = repository.NewShardedStore(ctx, repository.WithShardCount(s.shardCount))
	s.queue = taskqueue.NewInMemoryQueue(
		taskqueue.WithCapacity(s.queueSize),
		taskqueue.WithBufferSize(s.queueSize),
	)

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.engine, s.store, s.store, s.cache)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "suitability service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("memoSize", s.memoSize),
		logger.Int("shards", s.shardCount),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping suitability service...")

	if s.pool != nil {
		s.pool.Stop()
	}
	if q, ok := s.queue.(*taskqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "suitability service stopped")
}

// Evaluate scores one seeker selection against one posting keyword set
// synchronously.
func (s *Service) Evaluate(ctx context.Context, seekerKeywordIDs []int64, postingKeywords []catalog.KeywordRecord) suitability.Result {
	start := time.Now()
	result := s.engine.Evaluate(ctx, seekerKeywordIDs, postingKeywords)
	metrics.RecordEvaluationLatency(float64(time.Since(start).Milliseconds()))
	metrics.RecordEvaluation(string(result.Level))
	for _, gate := range result.Details.MissingRequiredCategories {
		metrics.RecordGateFailure(gate)
	}

	if s.logger != nil {
		s.logger.Debug(ctx, "evaluated pair",
			logger.Int("keywords", len(seekerKeywordIDs)),
			logger.Int("postingKeywords", len(postingKeywords)),
			logger.Int("score", result.Score),
			logger.String("level", string(result.Level)),
		)
	}
	return result
}

// ReplaceRules atomically swaps the active rule configuration and
// invalidates the memo cache, whose entries were computed under the old
// thresholds.
func (s *Service) ReplaceRules(ctx context.Context, cfg *rules.Config) {
	if cfg == nil {
		return
	}
	s.engine.ReplaceRules(cfg)
	s.cache.Reset(ctx)
	metrics.RecordRulesSwap()
	metrics.UpdateMemoSize(0)
	if s.logger != nil {
		s.logger.Info(ctx, "rule configuration replaced",
			logger.Int("perfect", cfg.ScoreLevels.Perfect),
			logger.Int("excellent", cfg.ScoreLevels.Excellent),
			logger.Int("good", cfg.ScoreLevels.Good),
			logger.Int("fair", cfg.ScoreLevels.Fair),
		)
	}
}

// Rules returns the active rule configuration.
func (s *Service) Rules() *rules.Config {
	return s.engine.Rules()
}

// AddPosting registers or replaces a posting.
// Returns true when the posting is new.
func (s *Service) AddPosting(ctx context.Context, p model.Posting) bool {
	created := s.store.UpsertPosting(ctx, p)
	if !created {
		// Replacement may have changed the posting's keyword set;
		// cached scores for it are no longer trustworthy.
		s.cache.DropPosting(ctx, p.ID)
	}
	if s.logger != nil {
		s.logger.Debug(ctx, "posting upserted",
			logger.String("postingID", p.ID),
			logger.Int("keywords", len(p.Keywords)),
		)
	}
	return created
}

// Posting returns one registered posting.
func (s *Service) Posting(ctx context.Context, id string) (model.Posting, error) {
	return s.store.Posting(ctx, id)
}

// EnqueueMatches fans out one match task per registered posting for the
// seeker. Returns the number of enqueued tasks and false when the queue
// rejected any of them.
func (s *Service) EnqueueMatches(ctx context.Context, seekerID string, keywordIDs []int64) (int, bool) {
	postings := s.store.Postings(ctx)
	enqueued := 0
	for _, p := range postings {
		task := model.MatchTask{
			TaskID:     uuid.NewString(),
			SeekerID:   seekerID,
			KeywordIDs: keywordIDs,
			PostingID:  p.ID,
		}
		if !s.queue.Enqueue(ctx, task) {
			s.logger.Warn(ctx, "task queue rejected match task",
				logger.String("seekerID", seekerID),
				logger.String("postingID", p.ID),
			)
			return enqueued, false
		}
		enqueued++
	}
	return enqueued, true
}

// TopMatches returns the seeker's best n postings.
func (s *Service) TopMatches(ctx context.Context, seekerID string, n int) ([]model.MatchEntry, error) {
	return s.store.TopMatches(ctx, seekerID, n)
}

// Match returns the ranked entry for one (seeker, posting) pair.
func (s *Service) Match(ctx context.Context, seekerID, postingID string) (model.MatchEntry, error) {
	return s.store.Match(ctx, seekerID, postingID)
}

// GetStats returns a snapshot of operational counters for /stats.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
	}
	if s.queue != nil {
		stats["queueLength"] = s.queue.Len(context.Background())
	}
	if s.store != nil {
		stats["totalSeekers"] = s.store.SeekerCount(context.Background())
		stats["totalPostings"] = s.store.PostingCount(context.Background())
	}
	if s.cache != nil {
		stats["memoSize"] = s.cache.Size()
	}
	return stats
}
