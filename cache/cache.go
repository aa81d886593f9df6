package cache

import (
	"github.com/maypok86/otter"

	"github.com/mevdschee/tqdbkit/metrics"
)

// DefaultSize is the number of rendered statements kept by DefaultConfig.
const DefaultSize = 1024

// Cache wraps Otter for rendered SQL statement caching. Rendering is a pure
// function of its key, so entries never need a TTL.
type Cache struct {
	store otter.Cache[string, string]
}

// New creates a new cache holding at most maxSize statements
func New(maxSize int) (*Cache, error) {
	if maxSize <= 0 {
		maxSize = DefaultSize
	}
	store, err := otter.MustBuilder[string, string](maxSize).Build()
	if err != nil {
		return nil, err
	}
	return &Cache{store: store}, nil
}

// Get retrieves a cached statement by key
func (c *Cache) Get(key string) (string, bool) {
	return c.store.Get(key)
}

// Set stores a statement
func (c *Cache) Set(key, statement string) {
	c.store.Set(key, statement)
}

// GetOrRender returns the statement cached under key, calling render and
// storing its result on a miss. Concurrent misses may render twice; the
// results are identical.
func (c *Cache) GetOrRender(key string, render func() string) string {
	if s, ok := c.store.Get(key); ok {
		metrics.StatementCache.WithLabelValues("hit").Inc()
		return s
	}
	metrics.StatementCache.WithLabelValues("miss").Inc()
	s := render()
	c.store.Set(key, s)
	return s
}

// Delete removes an entry from the cache
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Len returns the number of cached statements
func (c *Cache) Len() int {
	return c.store.Size()
}

// Close releases the cache's background resources
func (c *Cache) Close() {
	c.store.Close()
}
