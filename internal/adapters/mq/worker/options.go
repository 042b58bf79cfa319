// Package worker defines worker contracts for asynchronous match
// scoring and board updates.
package worker

import (
	"github.com/okian/matcha/internal/domain/memo"
	"github.com/okian/matcha/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithCache enables result memoization. A nil cache disables it.
func WithCache(cache memo.Cache) Option {
	return func(w *InMemoryWorker) {
		w.cache = cache
	}
}
