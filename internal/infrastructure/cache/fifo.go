package cache

import (
	"sync"

	"github.com/arbiscout/backend/internal/domain"
)

// LookupCache is a thread-safe bounded cache of catalog lookup results
// keyed by canonical EAN. When full, inserting a new key evicts the
// oldest-inserted entry (FIFO, not LRU). Each matcher instance owns its
// cache; there is no process-wide singleton.
type LookupCache struct {
	mutex    sync.Mutex
	capacity int
	entries  map[string][]domain.CatalogEntry
	order    []string
}

// DefaultCapacity bounds the cache when no capacity is configured
const DefaultCapacity = 1000

// NewLookupCache creates a cache holding at most capacity keys
func NewLookupCache(capacity int) *LookupCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LookupCache{
		capacity: capacity,
		entries:  make(map[string][]domain.CatalogEntry, capacity),
	}
}

// Get retrieves the cached lookup result for a canonical EAN
func (c *LookupCache) Get(code string) ([]domain.CatalogEntry, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entries, ok := c.entries[code]
	return entries, ok
}

// Put stores a lookup result, evicting the oldest-inserted key when the
// cache is at capacity. Re-inserting an existing key replaces its value
// without changing its insertion position.
func (c *LookupCache) Put(code string, entries []domain.CatalogEntry) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.entries[code]; exists {
		c.entries[code] = entries
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[code] = entries
	c.order = append(c.order, code)
}

// Len returns the current number of cached keys
func (c *LookupCache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.entries)
}

// Clear removes all cached entries
func (c *LookupCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries = make(map[string][]domain.CatalogEntry, c.capacity)
	c.order = nil
}
