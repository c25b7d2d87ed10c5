// Package searchcache caches ranked search results keyed by a
// deterministic query fingerprint. Entries live for a fixed TTL;
// expired entries are removed on read, and writes sweep anything older
// than twice the TTL.
package searchcache

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kwonjungwook/short0812/internal/content"
	"github.com/kwonjungwook/short0812/internal/logger"
	"github.com/kwonjungwook/short0812/internal/storage"
)

// DefaultTTL is how long a cached result stays valid.
const DefaultTTL = 30 * time.Minute

// DocumentStore is the persistence collaborator the cache writes
// through. Implemented by storage.Store.
type DocumentStore interface {
	Load(name string, v any) error
	Save(name string, v any) error
}

// Entry is one cached result set.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Data      []content.Item `json:"data"`
}

// EntryInfo describes the age of a cache hit for response metadata.
type EntryInfo struct {
	AgeMinutes       int       `json:"ageMinutes"`
	RemainingMinutes int       `json:"remainingMinutes"`
	Expiry           time.Time `json:"expiry"`
}

// Stats summarizes cache occupancy.
type Stats struct {
	ActiveCount    int      `json:"activeCount"`
	ExpiredCount   int      `json:"expiredCount"`
	TotalItemCount int      `json:"totalItemCount"`
	Keys           []string `json:"keys"`
}

// Cache owns fingerprinting, TTL policy, and sweep timing. The backing
// store only sees whole documents. All operations hold the cache mutex
// so read-then-delete and write-then-sweep sequences cannot interleave.
type Cache struct {
	store DocumentStore
	ttl   time.Duration
	log   logger.Logger
	now   func() time.Time

	mu sync.Mutex
}

// New creates a cache over the given document store.
func New(store DocumentStore, log logger.Logger) *Cache {
	return &Cache{
		store: store,
		ttl:   DefaultTTL,
		log:   log,
		now:   time.Now,
	}
}

// WithNow overrides the clock. Test hook.
func (c *Cache) WithNow(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Fingerprint derives the cache key for a normalized query. Each set
// is sorted before joining so element order never changes the key; the
// field separator differs from the element separator so values cannot
// collide across fields.
func Fingerprint(countries, platforms, categories []string, timeRange int, minViews int64) string {
	return strings.Join([]string{
		sortedJoin(countries),
		sortedJoin(platforms),
		sortedJoin(categories),
		strconv.Itoa(timeRange),
		strconv.FormatInt(minViews, 10),
	}, "_")
}

func sortedJoin(vals []string) string {
	sorted := make([]string, len(vals))
	copy(sorted, vals)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// Get returns the cached payload for fingerprint, or false on miss. An
// entry past its TTL counts as a miss and is deleted on the spot.
func (c *Cache) Get(fingerprint string) ([]content.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := c.load()
	entry, ok := doc[fingerprint]
	if !ok {
		return nil, false
	}

	if c.now().Sub(entry.Timestamp) > c.ttl {
		delete(doc, fingerprint)
		if err := c.store.Save(storage.SearchCacheDoc, doc); err != nil {
			c.log.Warn("dropping expired cache entry failed", logger.Error(err))
		}
		return nil, false
	}

	return entry.Data, true
}

// Info reports age metadata for a valid entry, or false when the entry
// is absent or expired.
func (c *Cache) Info(fingerprint string) (EntryInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := c.load()
	entry, ok := doc[fingerprint]
	if !ok {
		return EntryInfo{}, false
	}

	age := c.now().Sub(entry.Timestamp)
	if age > c.ttl {
		return EntryInfo{}, false
	}

	return EntryInfo{
		AgeMinutes:       int(age.Minutes()),
		RemainingMinutes: int((c.ttl - age).Minutes()) + 1,
		Expiry:           entry.Timestamp.Add(c.ttl),
	}, true
}

// Put stores items under fingerprint stamped with the current time,
// then sweeps every entry older than twice the TTL.
func (c *Cache) Put(fingerprint string, items []content.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	doc := c.load()
	doc[fingerprint] = Entry{Timestamp: now, Data: items}

	for key, entry := range doc {
		if now.Sub(entry.Timestamp) > 2*c.ttl {
			delete(doc, key)
		}
	}

	return c.store.Save(storage.SearchCacheDoc, doc)
}

// Stats counts active and expired entries without mutating anything.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := c.load()
	now := c.now()

	stats := Stats{Keys: make([]string, 0, len(doc))}
	for key, entry := range doc {
		if now.Sub(entry.Timestamp) <= c.ttl {
			stats.ActiveCount++
		} else {
			stats.ExpiredCount++
		}
		stats.TotalItemCount += len(entry.Data)
		stats.Keys = append(stats.Keys, key)
	}
	sort.Strings(stats.Keys)
	return stats
}

// Clear drops every entry.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Save(storage.SearchCacheDoc, map[string]Entry{})
}

func (c *Cache) load() map[string]Entry {
	doc := map[string]Entry{}
	if err := c.store.Load(storage.SearchCacheDoc, &doc); err != nil {
		c.log.Warn("loading search cache failed, starting empty", logger.Error(err))
	}
	return doc
}
