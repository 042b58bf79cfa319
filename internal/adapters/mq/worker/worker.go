// Package worker defines worker contracts for asynchronous match
// scoring and board updates.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/matcha/internal/domain/catalog"
	"github.com/okian/matcha/internal/domain/memo"
	"github.com/okian/matcha/internal/domain/model"
	"github.com/okian/matcha/internal/domain/suitability"
	"github.com/okian/matcha/pkg/logger"
	"github.com/okian/matcha/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Task is what workers read off the queue.
type Task = model.MatchTask

// Evaluator computes a suitability result for a seeker/posting pair.
type Evaluator interface {
	Evaluate(ctx context.Context, seekerKeywordIDs []int64, postingKeywords []catalog.KeywordRecord) suitability.Result
}

// PostingSource resolves posting ids to their keyword sets.
type PostingSource interface {
	Posting(ctx context.Context, id string) (model.Posting, error)
}

// Updater records a scored match on the board.
type Updater interface {
	UpdateMatch(ctx context.Context, seekerID, postingID string, score int, level string) (bool, error)
}

// Queue defines how workers receive tasks.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Task
}

// Worker processes match tasks until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing match tasks.
type InMemoryWorker struct {
	queue     Queue
	evaluator Evaluator
	postings  PostingSource
	updater   Updater
	cache     memo.Cache // optional; nil disables memoization
	name      string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, evaluator Evaluator, postings PostingSource, updater Updater, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		evaluator: evaluator,
		postings:  postings,
		updater:   updater,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	taskChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case task, ok := <-taskChan:
			if !ok {
				return
			}
			if err := w.processTask(ctx, task); err != nil {
				w.logger.Error(ctx, "error processing task", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processTask scores one (seeker, posting) pair and updates the board.
func (w *InMemoryWorker) processTask(ctx context.Context, task Task) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	posting, err := w.postings.Posting(ctx, task.PostingID)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "unknown_posting")
		w.logger.Error(ctx, "posting lookup failed",
			logger.String("taskID", task.TaskID),
			logger.String("postingID", task.PostingID),
			logger.Error(err),
		)
		return fmt.Errorf("posting %s: %w", task.PostingID, err)
	}

	result, cached := w.cachedResult(ctx, task)
	if !cached {
		evalStart := time.Now()
		result = w.evaluator.Evaluate(ctx, task.KeywordIDs, posting.Keywords)
		metrics.RecordEvaluationLatency(float64(time.Since(evalStart).Milliseconds()))
		metrics.RecordEvaluation(string(result.Level))
		for _, gate := range result.Details.MissingRequiredCategories {
			metrics.RecordGateFailure(gate)
		}
		if w.cache != nil {
			w.cache.Put(ctx, memo.Key(task.KeywordIDs, task.PostingID), result)
			metrics.UpdateMemoSize(w.cache.Size())
		}
	}

	if _, err := w.updater.UpdateMatch(ctx, task.SeekerID, task.PostingID, result.Score, string(result.Level)); err != nil {
		metrics.RecordMatchError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "match_update")
		w.logger.Error(ctx, "match update failed",
			logger.String("taskID", task.TaskID),
			logger.String("seekerID", task.SeekerID),
			logger.Error(err),
		)
		return fmt.Errorf("match update failed: %w", err)
	}
	return nil
}

func (w *InMemoryWorker) cachedResult(ctx context.Context, task Task) (suitability.Result, bool) {
	if w.cache == nil {
		return suitability.Result{}, false
	}
	result, ok := w.cache.Get(ctx, memo.Key(task.KeywordIDs, task.PostingID))
	if ok {
		metrics.RecordMemoHit()
		return result, true
	}
	metrics.RecordMemoMiss()
	return suitability.Result{}, false
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	// Shutdown control
	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, evaluator Evaluator, postings PostingSource, updater Updater, cache memo.Cache) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    queue,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			evaluator,
			postings,
			updater,
			WithName("worker-"+strconv.Itoa(i)),
			WithCache(cache),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop gracefully stops all workers. Safe to call more than once.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.shutdown)

		for _, worker := range p.workers {
			close(worker.shutdown)
		}
		for _, worker := range p.workers {
			select {
			case <-worker.done:
			case <-time.After(workerShutdownTimeout):
			}
		}
	})
}

// Shutdown closes the queue so workers drain remaining tasks, then stops
// the pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	select {
	case <-stopped:
		return nil
	case <-shutdownCtx.Done():
		p.logger.Warn(ctx, "worker pool shutdown timed out")
		return fmt.Errorf("pool shutdown timed out: %w", shutdownCtx.Err())
	}
}
