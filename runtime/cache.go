package runtime

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"
	"vision-pilot/domain"
)

type cacheEntry struct {
	key      string
	result   domain.AnalysisResult
	storedAt time.Time
}

// AnalysisCache keeps recent pipeline results by content key. Entries are
// ordered by insertion, the oldest goes first once expired ones are gone.
type AnalysisCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	maxSize int
	entries map[string]*list.Element
	order   *list.List
	now     func() time.Time

	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewAnalysisCache(ttl time.Duration, maxSize int) *AnalysisCache {
	return &AnalysisCache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// CacheKey hashes the command and the image bytes together.
func CacheKey(command string, image []byte) string {
	h := sha256.New()
	h.Write([]byte(command))
	h.Write([]byte{0})
	h.Write(image)
	return hex.EncodeToString(h.Sum(nil))
}

// Get never returns an entry older than the TTL.
func (c *AnalysisCache) Get(key string) (domain.AnalysisResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return domain.AnalysisResult{}, false
	}
	entry := el.Value.(*cacheEntry)
	if c.now().Sub(entry.storedAt) >= c.ttl {
		c.misses.Add(1)
		return domain.AnalysisResult{}, false
	}
	c.hits.Add(1)
	return entry.result.Clone(), true
}

func (c *AnalysisCache) Put(key string, result domain.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.Remove(el)
		delete(c.entries, key)
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, result: result.Clone(), storedAt: c.now()})

	if len(c.entries) <= c.maxSize {
		return
	}
	c.pruneExpiredLocked()
	for len(c.entries) > c.maxSize {
		c.removeLocked(c.order.Back())
	}
}

// PruneExpired drops every entry past its TTL and returns how many went.
func (c *AnalysisCache) PruneExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pruneExpiredLocked()
}

func (c *AnalysisCache) pruneExpiredLocked() int {
	removed := 0
	now := c.now()
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if now.Sub(el.Value.(*cacheEntry).storedAt) >= c.ttl {
			c.removeLocked(el)
			removed++
		}
		el = prev
	}
	return removed
}

func (c *AnalysisCache) removeLocked(el *list.Element) {
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.entries, el.Value.(*cacheEntry).key)
}

func (c *AnalysisCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	return n
}

func (c *AnalysisCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *AnalysisCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
