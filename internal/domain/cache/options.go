package cache

// Option configures the in-memory cache.
type Option func(*inMemoryCache)

// WithMaxSize sets the maximum number of bundles kept.
// If maxSize <= 0 nothing is stored and every Get misses.
func WithMaxSize(maxSize int) Option {
	return func(c *inMemoryCache) {
		c.maxSize = maxSize
	}
}
