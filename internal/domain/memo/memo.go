// Package memo provides a bounded in-memory cache of evaluation
// results. Scoring is deterministic, so a (seeker selection, posting)
// pair always maps to the same result; the async match pipeline uses
// the cache to avoid rescoring unchanged postings when a seeker is
// re-enqueued. A rules swap invalidates everything via Reset.
package memo

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/okian/matcha/internal/domain/suitability"
)

// Cache stores evaluation results keyed by Key output.
type Cache interface {
	// Get returns the cached result for key, if present.
	Get(ctx context.Context, key string) (suitability.Result, bool)

	// Put stores a result. When the cache is full the entry added
	// most recently before this one is evicted first.
	Put(ctx context.Context, key string, r suitability.Result)

	// Reset drops all entries. Called on rule configuration swaps.
	Reset(ctx context.Context)

	// DropPosting drops every entry cached for the posting. Called when
	// a posting is re-registered, since its keyword set may have changed.
	DropPosting(ctx context.Context, postingID string)

	Size() int64
}

// Key builds a cache key from a seeker's selection and a posting id.
// Selection order does not affect scoring output for the same set, but
// the caller is expected to pass ids in a stable order.
func Key(seekerIDs []int64, postingID string) string {
	var b strings.Builder
	for _, id := range seekerIDs {
		b.WriteString(strconv.FormatInt(id, 10))
		b.WriteByte(',')
	}
	b.WriteByte('|')
	b.WriteString(postingID)
	return b.String()
}

// node is one entry in the eviction list.
type node struct {
	key    string
	result suitability.Result
	next   *node
}

// inMemoryCache implements Cache with a map plus a LIFO eviction list,
// mirroring the bounded-mode layout of the dedupe cache it replaced.
// maxSize <= 0 disables eviction.
type inMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*node
	head    *node
	maxSize int
	size    atomic.Int64
}

// NewInMemoryCache creates a bounded in-memory cache.
func NewInMemoryCache(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: 50000, // default max size
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[string]*node)
	return c
}

func (c *inMemoryCache) Get(ctx context.Context, key string) (suitability.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, ok := c.entries[key]
	if !ok {
		return suitability.Result{}, false
	}
	return n.result, true
}

func (c *inMemoryCache) Put(ctx context.Context, key string, r suitability.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		n.result = r
		return
	}

	if c.maxSize > 0 && len(c.entries) >= c.maxSize && c.head != nil {
		// Evict the most recently added entry (LIFO), keeping older
		// entries warm.
		evicted := c.head
		c.head = evicted.next
		delete(c.entries, evicted.key)
		c.size.Add(-1)
	}

	n := &node{key: key, result: r, next: c.head}
	c.head = n
	c.entries[key] = n
	c.size.Add(1)
}

func (c *inMemoryCache) Reset(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*node)
	c.head = nil
	c.size.Store(0)
}

func (c *inMemoryCache) DropPosting(ctx context.Context, postingID string) {
	suffix := "|" + postingID

	c.mu.Lock()
	defer c.mu.Unlock()

	var prev *node
	for n := c.head; n != nil; n = n.next {
		if !strings.HasSuffix(n.key, suffix) {
			prev = n
			continue
		}
		delete(c.entries, n.key)
		c.size.Add(-1)
		if prev == nil {
			c.head = n.next
		} else {
			prev.next = n.next
		}
	}
}

func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}
