// Package cache memoises computed chart bundles by filter key.
package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/mindthegap/internal/domain/chart"
)

// Cache stores bundles keyed by model.FilterState.Key.
type Cache interface {
	// Get returns the bundle stored under key, if any.
	Get(ctx context.Context, key string) (chart.Bundle, bool)

	// Put stores b under key. When the cache is full the oldest entry is
	// evicted first. Putting an existing key replaces its bundle in place.
	Put(ctx context.Context, key string, b chart.Bundle)

	Size() int64
}

// node is one entry of the insertion-ordered list.
type node struct {
	key    string
	bundle chart.Bundle
	next   *node
}

func (n *node) reset() {
	n.key = ""
	n.bundle = chart.Bundle{}
	n.next = nil
}

// inMemoryCache keeps entries in a map plus a singly linked list ordered from
// oldest (head) to newest (tail). maxSize <= 0 disables storing.
type inMemoryCache struct {
	mu       sync.RWMutex
	entries  map[string]*node
	head     *node
	tail     *node
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryCache creates a bounded FIFO cache.
func NewInMemoryCache(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: 256,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[string]*node)
	c.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}
	return c
}

func (c *inMemoryCache) Get(ctx context.Context, key string) (chart.Bundle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, ok := c.entries[key]
	if !ok {
		return chart.Bundle{}, false
	}
	return n.bundle, true
}

func (c *inMemoryCache) Put(ctx context.Context, key string, b chart.Bundle) {
	if c.maxSize <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		n.bundle = b
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	n := c.nodePool.Get().(*node)
	n.key = key
	n.bundle = b
	if c.tail == nil {
		c.head = n
	} else {
		c.tail.next = n
	}
	c.tail = n
	c.entries[key] = n
	c.size.Add(1)
}

// evictOldest drops the head of the list. Must be called with c.mu held.
func (c *inMemoryCache) evictOldest() {
	n := c.head
	if n == nil {
		return
	}
	c.head = n.next
	if c.head == nil {
		c.tail = nil
	}
	delete(c.entries, n.key)
	n.reset()
	c.nodePool.Put(n)
	c.size.Add(-1)
}

// Size returns the current number of entries.
func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}
