// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"

	"github.com/okian/matcha/internal/domain/rules"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// TaskQueueSize bounds the in-memory match task queue.
	TaskQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// MemoSize sets the size of the evaluation result cache.
	MemoSize int `koanf:"memo_size"`

	// ShardCount configures the number of shards in the match board store.
	ShardCount int `koanf:"shard_count"`

	// MaxMatchLimit caps GET /matches/{seeker_id}?limit.
	MaxMatchLimit int `koanf:"max_match_limit"`

	// ScoreLevels configures the tier thresholds applied to scores.
	ScoreLevels rules.ScoreLevels `koanf:"score_levels"`
}

// New creates a Config using provided options. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:      "info",
		Addr:          ":9080",
		TaskQueueSize: 100_000,
		WorkerCount:   runtime.NumCPU() * 10,
		MemoSize:      50_000,
		ShardCount:    8,
		MaxMatchLimit: 100,
		ScoreLevels:   rules.Default().ScoreLevels,
	}
	return c
}
