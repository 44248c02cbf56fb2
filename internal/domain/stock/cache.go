// internal/domain/stock/cache.go
package stock

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultFreshness is the window during which a cached availability value is
// trusted without re-reading the oracle.
const DefaultFreshness = 5 * time.Second

type cacheEntry struct {
	quantity  int
	fetchedAt time.Time
}

// Cache is a process-local, advisory view of remaining stock, keyed by
// "<productId>_<size>". It avoids redundant oracle reads inside the freshness
// window and tracks this process's own reservations before they are
// persisted. It is NOT cross-session-consistent and is never authoritative:
// the real check-and-decrement happens inside the checkout transaction.
type Cache struct {
	reader    Reader
	freshness time.Duration
	now       func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCache(reader Reader) *Cache {
	return NewCacheWithOptions(reader, DefaultFreshness, time.Now)
}

// NewCacheWithOptions is useful for tests (short freshness, fake clock).
func NewCacheWithOptions(reader Reader, freshness time.Duration, now func() time.Time) *Cache {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		reader:    reader,
		freshness: freshness,
		now:       now,
		entries:   map[string]cacheEntry{},
	}
}

// Get returns the cached availability for (productId, size) if the entry is
// still fresh; otherwise it fetches from the oracle, stores the value with a
// fresh timestamp and returns it.
func (c *Cache) Get(ctx context.Context, productID, size string) (int, error) {
	key := CacheKey(productID, size)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.fetchedAt) < c.freshness {
		q := e.quantity
		c.mu.Unlock()
		return q, nil
	}
	c.mu.Unlock()

	return c.Refresh(ctx, productID, size)
}

// Refresh always reads the oracle and overwrites the cached entry.
// Used as the second, race-narrowing check right before a cart mutation.
func (c *Cache) Refresh(ctx context.Context, productID, size string) (int, error) {
	if c.reader == nil {
		return 0, &ProductNotFoundError{ProductID: strings.TrimSpace(productID)}
	}

	q, err := c.reader.GetAvailable(ctx, productID, size)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.entries[CacheKey(productID, size)] = cacheEntry{quantity: q, fetchedAt: c.now()}
	c.mu.Unlock()
	return q, nil
}

// Set unconditionally overwrites the local value with a fresh timestamp.
// Used for "I just reserved N units, decrement my local view".
func (c *Cache) Set(productID, size string, quantity int) {
	c.mu.Lock()
	c.entries[CacheKey(productID, size)] = cacheEntry{quantity: quantity, fetchedAt: c.now()}
	c.mu.Unlock()
}

// Add applies a delta to the cached value, if one exists.
// Used for "I just released N units, increment my local view" (item removal).
// Returns false when there is no entry to adjust; the caller treats that as
// best-effort and moves on.
func (c *Cache) Add(productID, size string, delta int) bool {
	key := CacheKey(productID, size)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	e.quantity += delta
	e.fetchedAt = c.now()
	c.entries[key] = e
	return true
}

// Peek returns the cached value without consulting freshness or the oracle.
// Test/diagnostic helper.
func (c *Cache) Peek(productID, size string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[CacheKey(productID, size)]
	return e.quantity, ok
}
