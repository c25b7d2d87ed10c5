// Package pipeline aggregates viral content across platforms and
// countries: cache consultation, adapter fan-out with partial-failure
// tolerance, dedup, category filtering, ranking, truncation, quota
// reporting, and cache write-through.
package pipeline

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/kwonjungwook/short0812/internal/content"
	"github.com/kwonjungwook/short0812/internal/logger"
	"github.com/kwonjungwook/short0812/internal/quota"
	"github.com/kwonjungwook/short0812/internal/searchcache"
	"github.com/kwonjungwook/short0812/internal/source"
)

const (
	// MaxResults bounds the final ranked list.
	MaxResults = 100

	// titleDedupPrefix is how many leading title characters feed the
	// dedup key, so near-duplicate postings from different discovery
	// paths collapse.
	titleDedupPrefix = 50
)

var (
	// ErrNoCountries rejects a query with an empty country set.
	ErrNoCountries = errors.New("at least one country is required")
	// ErrNoPlatforms rejects a query with an empty platform set.
	ErrNoPlatforms = errors.New("at least one platform is required")
)

// Query is a normalized search request.
type Query struct {
	Countries  []string
	Platforms  []string
	Categories []string
	TimeRange  int
	MinViews   int64
	UseCache   bool
}

// Validate rejects queries the pipeline must not run.
func (q Query) Validate() error {
	if len(q.Countries) == 0 {
		return ErrNoCountries
	}
	if len(q.Platforms) == 0 {
		return ErrNoPlatforms
	}
	return nil
}

// Fingerprint returns the cache key for this query.
func (q Query) Fingerprint() string {
	return searchcache.Fingerprint(q.Countries, q.Platforms, q.Categories, q.TimeRange, q.MinViews)
}

// SearchInfo echoes the parameters of a fresh computation.
type SearchInfo struct {
	Countries    []string `json:"countries"`
	Platforms    []string `json:"platforms"`
	Categories   []string `json:"categories"`
	TimeRange    int      `json:"timeRange"`
	MinViews     int64    `json:"minViews"`
	TotalFound   int      `json:"totalFound"`
	APICallsUsed int      `json:"apiCallsUsed"`
}

// Result is a ranked result set plus its provenance.
type Result struct {
	Items     []content.Item
	Cached    bool
	CacheInfo *searchcache.EntryInfo
	Search    *SearchInfo
	Usage     quota.Snapshot
}

// Aggregator runs search queries against the registered adapters.
type Aggregator struct {
	adapters map[content.Platform]source.Adapter
	cache    *searchcache.Cache
	meter    *quota.Meter
	log      logger.Logger
	now      func() time.Time
}

// New wires an aggregator. Adapters are keyed by their platform; a
// query naming an unregistered platform contributes nothing for that
// pair.
func New(adapters []source.Adapter, cache *searchcache.Cache, meter *quota.Meter, log logger.Logger) *Aggregator {
	byPlatform := make(map[content.Platform]source.Adapter, len(adapters))
	for _, a := range adapters {
		byPlatform[a.Platform()] = a
	}
	return &Aggregator{
		adapters: byPlatform,
		cache:    cache,
		meter:    meter,
		log:      log,
		now:      time.Now,
	}
}

// WithNow overrides the clock. Test hook.
func (a *Aggregator) WithNow(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

type pair struct {
	country  content.Country
	platform content.Platform
}

// Search produces the ranked, deduplicated, filtered, size-bounded
// result for q. An entirely failed fan-out yields a valid empty
// result, not an error.
func (a *Aggregator) Search(ctx context.Context, q Query) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	fingerprint := q.Fingerprint()
	if q.UseCache {
		if items, ok := a.cache.Get(fingerprint); ok {
			info, _ := a.cache.Info(fingerprint)
			a.log.Info("cache hit", logger.String("fingerprint", fingerprint), logger.Int("items", len(items)))
			return &Result{
				Items:     items,
				Cached:    true,
				CacheInfo: &info,
				Usage:     a.meter.Current(),
			}, nil
		}
	}

	now := a.now()
	merged, costUsed := a.fanOut(ctx, q, now)

	deduped := dedupe(merged)
	filtered := filterCategories(deduped, q.Categories)

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].ViralScore > filtered[j].ViralScore
	})
	if len(filtered) > MaxResults {
		filtered = filtered[:MaxResults]
	}

	usage := a.meter.Current()
	if costUsed > 0 {
		usage = a.meter.Track(costUsed)
	}

	// Every fresh computation refreshes the cache, even when the
	// caller opted out of reading it.
	if err := a.cache.Put(fingerprint, filtered); err != nil {
		a.log.Warn("cache write failed", logger.String("fingerprint", fingerprint), logger.Error(err))
	}

	a.log.Info("search complete",
		logger.Strings("countries", q.Countries),
		logger.Strings("platforms", q.Platforms),
		logger.Int("results", len(filtered)),
		logger.Int("quota_units", costUsed))

	return &Result{
		Items:  filtered,
		Cached: false,
		Search: &SearchInfo{
			Countries:    q.Countries,
			Platforms:    q.Platforms,
			Categories:   q.Categories,
			TimeRange:    q.TimeRange,
			MinViews:     q.MinViews,
			TotalFound:   len(filtered),
			APICallsUsed: costUsed,
		},
		Usage: usage,
	}, nil
}

// fanOut invokes the matching adapter for every (country, platform)
// pair concurrently. Merge order follows pair order, countries outer
// and platforms inner as given in the query, never goroutine
// completion order. A failed pair is logged and contributes nothing.
func (a *Aggregator) fanOut(ctx context.Context, q Query, now time.Time) ([]content.Item, int) {
	var pairs []pair
	for _, c := range q.Countries {
		for _, p := range q.Platforms {
			pairs = append(pairs, pair{content.Country(c), content.Platform(p)})
		}
	}

	var (
		results = make([][]content.Item, len(pairs))
		costs   = make([]int, len(pairs))
		wg      sync.WaitGroup
	)

	for i, pr := range pairs {
		adapter, ok := a.adapters[pr.platform]
		if !ok {
			a.log.Warn("no adapter for platform", logger.String("platform", string(pr.platform)))
			continue
		}

		wg.Add(1)
		go func(i int, pr pair, adapter source.Adapter) {
			defer wg.Done()
			items, err := adapter.Search(ctx, pr.country, q.TimeRange, q.MinViews, now)
			if err != nil {
				a.log.Warn("source search failed, skipping pair",
					logger.String("platform", string(pr.platform)),
					logger.String("country", string(pr.country)),
					logger.Error(err))
				return
			}
			results[i] = items
			costs[i] = adapter.Cost()
		}(i, pr, adapter)
	}
	wg.Wait()

	var merged []content.Item
	totalCost := 0
	for i := range pairs {
		merged = append(merged, results[i]...)
		totalCost += costs[i]
	}
	return merged, totalCost
}

// dedupe collapses items sharing a bounded title prefix and channel
// name. First occurrence in merge order wins.
func dedupe(items []content.Item) []content.Item {
	seen := make(map[string]bool, len(items))
	out := make([]content.Item, 0, len(items))
	for _, it := range items {
		key := titlePrefix(it.Title) + "_" + it.ChannelTitle
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}

func titlePrefix(title string) string {
	runes := []rune(title)
	if len(runes) > titleDedupPrefix {
		runes = runes[:titleDedupPrefix]
	}
	return string(runes)
}

// filterCategories keeps only items whose category is in the requested
// set. An empty set means no filtering.
func filterCategories(items []content.Item, categories []string) []content.Item {
	if len(categories) == 0 {
		return items
	}
	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}
	out := make([]content.Item, 0, len(items))
	for _, it := range items {
		if wanted[it.Category] {
			out = append(out, it)
		}
	}
	return out
}
