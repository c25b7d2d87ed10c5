package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kwonjungwook/short0812/internal/content"
	"github.com/kwonjungwook/short0812/internal/logger"
	"github.com/kwonjungwook/short0812/internal/quota"
	"github.com/kwonjungwook/short0812/internal/searchcache"
	"github.com/kwonjungwook/short0812/internal/source"
	"github.com/kwonjungwook/short0812/internal/storage"
)

// fakeAdapter returns canned items and counts invocations.
type fakeAdapter struct {
	platform content.Platform
	cost     int
	items    []content.Item
	err      error
	delay    time.Duration
	calls    atomic.Int32
}

func (f *fakeAdapter) Platform() content.Platform { return f.platform }
func (f *fakeAdapter) Cost() int                  { return f.cost }

func (f *fakeAdapter) Search(ctx context.Context, country content.Country, timeRange int, minViews int64, now time.Time) ([]content.Item, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]content.Item, len(f.items))
	copy(out, f.items)
	for i := range out {
		out[i].Country = country
		out[i].Platform = f.platform
	}
	return out, nil
}

func item(id, title, channel string, score int64) content.Item {
	return content.Item{
		ID:           id,
		Title:        title,
		ChannelTitle: channel,
		ViewCount:    score,
		ViralScore:   score,
		Category:     "animals",
	}
}

func testAggregator(t *testing.T, adapters ...*fakeAdapter) (*Aggregator, *quota.Meter, *searchcache.Cache) {
	t.Helper()
	store, err := storage.Open(t.TempDir(), logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	cache := searchcache.New(store, logger.NewNop())
	meter := quota.NewMeter(10000)

	list := make([]source.Adapter, 0, len(adapters))
	for _, a := range adapters {
		list = append(list, a)
	}
	return New(list, cache, meter, logger.NewNop()), meter, cache
}

func baseQuery() Query {
	return Query{
		Countries: []string{"US"},
		Platforms: []string{"youtube"},
		TimeRange: 24,
		MinViews:  500000,
		UseCache:  false,
	}
}

func TestValidation(t *testing.T) {
	agg, _, _ := testAggregator(t)

	q := baseQuery()
	q.Countries = nil
	if _, err := agg.Search(context.Background(), q); !errors.Is(err, ErrNoCountries) {
		t.Errorf("expected ErrNoCountries, got %v", err)
	}

	q = baseQuery()
	q.Platforms = nil
	if _, err := agg.Search(context.Background(), q); !errors.Is(err, ErrNoPlatforms) {
		t.Errorf("expected ErrNoPlatforms, got %v", err)
	}
}

func TestFreshSearchEndToEnd(t *testing.T) {
	yt := &fakeAdapter{
		platform: content.PlatformYouTube,
		cost:     150,
		items: []content.Item{
			item("a", "Title A", "chan-a", 5000),
			item("b", "Title B", "chan-b", 9000),
			item("c", "Title C", "chan-c", 1000),
		},
	}
	agg, meter, cache := testAggregator(t, yt)

	res, err := agg.Search(context.Background(), baseQuery())
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if res.Cached {
		t.Error("fresh search flagged as cached")
	}
	var scores []int64
	for _, it := range res.Items {
		scores = append(scores, it.ViralScore)
	}
	if fmt.Sprint(scores) != "[9000 5000 1000]" {
		t.Errorf("order = %v, want [9000 5000 1000]", scores)
	}

	if got := meter.Current().Used; got != 150 {
		t.Errorf("quota used = %d, want 150", got)
	}
	if res.Usage.Used != 150 {
		t.Errorf("result usage = %+v", res.Usage)
	}
	if res.Search == nil || res.Search.TotalFound != 3 || res.Search.APICallsUsed != 150 {
		t.Errorf("searchInfo = %+v", res.Search)
	}

	if _, ok := cache.Get(baseQuery().Fingerprint()); !ok {
		t.Error("fresh result not written to cache")
	}
}

func TestCachedRepeatSkipsAdapters(t *testing.T) {
	yt := &fakeAdapter{
		platform: content.PlatformYouTube,
		cost:     150,
		items:    []content.Item{item("a", "Title A", "chan-a", 5000)},
	}
	agg, meter, _ := testAggregator(t, yt)

	if _, err := agg.Search(context.Background(), baseQuery()); err != nil {
		t.Fatal(err)
	}
	callsAfterFresh := yt.calls.Load()

	q := baseQuery()
	q.UseCache = true
	res, err := agg.Search(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}

	if !res.Cached {
		t.Error("repeat not served from cache")
	}
	if res.CacheInfo == nil {
		t.Error("cache hit missing age metadata")
	}
	if yt.calls.Load() != callsAfterFresh {
		t.Errorf("adapter invoked on cache hit: %d calls", yt.calls.Load())
	}
	if meter.Current().Used != 150 {
		t.Errorf("quota changed on cache hit: %+v", meter.Current())
	}
	if len(res.Items) != 1 || res.Items[0].ID != "a" {
		t.Errorf("cached payload mismatch: %+v", res.Items)
	}
}

func TestDedupeByTitlePrefixAndChannel(t *testing.T) {
	// Same title and channel under different ids must collapse; the
	// first arrival survives.
	yt := &fakeAdapter{
		platform: content.PlatformYouTube,
		items: []content.Item{
			item("id-1", "Same Exact Title", "same-channel", 5000),
			item("id-2", "Same Exact Title", "same-channel", 4000),
			item("id-3", "Same Exact Title", "other-channel", 3000),
		},
	}
	agg, _, _ := testAggregator(t, yt)

	res, err := agg.Search(context.Background(), baseQuery())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(res.Items))
	}
	for _, it := range res.Items {
		if it.ID == "id-2" {
			t.Error("later duplicate survived dedup")
		}
	}
}

func TestDedupeLongTitles(t *testing.T) {
	long := make([]rune, 60)
	for i := range long {
		long[i] = 'x'
	}
	// Titles identical through 50 chars but differing after must still
	// collapse.
	t1 := string(long) + "-one"
	t2 := string(long) + "-two"

	yt := &fakeAdapter{
		platform: content.PlatformYouTube,
		items: []content.Item{
			item("id-1", t1, "chan", 5000),
			item("id-2", t2, "chan", 4000),
		},
	}
	agg, _, _ := testAggregator(t, yt)

	res, err := agg.Search(context.Background(), baseQuery())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 1 || res.Items[0].ID != "id-1" {
		t.Errorf("long-title dedup failed: %+v", res.Items)
	}
}

func TestCategoryFilter(t *testing.T) {
	a := item("a", "Dog video", "chan-a", 5000)
	a.Category = "animals"
	b := item("b", "Makeup video", "chan-b", 9000)
	b.Category = "beauty"

	yt := &fakeAdapter{platform: content.PlatformYouTube, items: []content.Item{a, b}}
	agg, _, _ := testAggregator(t, yt)

	q := baseQuery()
	q.Categories = []string{"animals"}
	res, err := agg.Search(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 1 || res.Items[0].Category != "animals" {
		t.Errorf("category filter leaked: %+v", res.Items)
	}

	// Empty category set means unfiltered.
	res, err = agg.Search(context.Background(), baseQuery())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 2 {
		t.Errorf("unfiltered query returned %d items, want 2", len(res.Items))
	}
}

func TestTruncationAt100(t *testing.T) {
	items := make([]content.Item, 150)
	for i := range items {
		items[i] = item(
			fmt.Sprintf("id-%d", i),
			fmt.Sprintf("Unique Title %d", i),
			fmt.Sprintf("chan-%d", i),
			int64(1000+i),
		)
	}
	yt := &fakeAdapter{platform: content.PlatformYouTube, items: items}
	agg, _, _ := testAggregator(t, yt)

	res, err := agg.Search(context.Background(), baseQuery())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != MaxResults {
		t.Fatalf("got %d items, want %d", len(res.Items), MaxResults)
	}
	for i := 1; i < len(res.Items); i++ {
		if res.Items[i].ViralScore > res.Items[i-1].ViralScore {
			t.Fatalf("not sorted descending at %d", i)
		}
	}
	if res.Items[0].ViralScore != 1149 {
		t.Errorf("top score = %d, want 1149", res.Items[0].ViralScore)
	}
}

func TestPartialFailureTolerated(t *testing.T) {
	yt := &fakeAdapter{
		platform: content.PlatformYouTube,
		cost:     150,
		err:      errors.New("quota exceeded"),
	}
	tk := &fakeAdapter{
		platform: content.PlatformTikTok,
		items:    []content.Item{item("t1", "Pet clip", "@pets", 7000)},
	}
	agg, meter, _ := testAggregator(t, yt, tk)

	q := baseQuery()
	q.Platforms = []string{"youtube", "tiktok"}
	res, err := agg.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("partial failure must not fail the search: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].ID != "t1" {
		t.Errorf("surviving source lost: %+v", res.Items)
	}
	// The failed metered call contributes no cost.
	if meter.Current().Used != 0 {
		t.Errorf("failed adapter charged quota: %+v", meter.Current())
	}
}

func TestAllSourcesFailedYieldsEmptyResult(t *testing.T) {
	yt := &fakeAdapter{platform: content.PlatformYouTube, err: errors.New("down")}
	agg, _, _ := testAggregator(t, yt)

	res, err := agg.Search(context.Background(), baseQuery())
	if err != nil {
		t.Fatalf("total fan-out failure must yield empty result, got error %v", err)
	}
	if len(res.Items) != 0 {
		t.Errorf("expected zero items, got %d", len(res.Items))
	}
	if res.Search.TotalFound != 0 {
		t.Errorf("totalFound = %d", res.Search.TotalFound)
	}
}

func TestUnknownPlatformSkipped(t *testing.T) {
	yt := &fakeAdapter{
		platform: content.PlatformYouTube,
		items:    []content.Item{item("a", "Title A", "chan-a", 5000)},
	}
	agg, _, _ := testAggregator(t, yt)

	q := baseQuery()
	q.Platforms = []string{"youtube", "myspace"}
	res, err := agg.Search(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 1 {
		t.Errorf("unknown platform disturbed results: %+v", res.Items)
	}
}

func TestMergeOrderDeterministicUnderConcurrency(t *testing.T) {
	// The youtube copy arrives last in wall-clock time but its pair
	// comes first in iteration order, so it must win dedup.
	slow := &fakeAdapter{
		platform: content.PlatformYouTube,
		delay:    30 * time.Millisecond,
		items:    []content.Item{item("slow", "Shared Title", "shared-chan", 5000)},
	}
	fast := &fakeAdapter{
		platform: content.PlatformTikTok,
		items:    []content.Item{item("fast", "Shared Title", "shared-chan", 4000)},
	}
	agg, _, _ := testAggregator(t, slow, fast)

	q := baseQuery()
	q.Platforms = []string{"youtube", "tiktok"}
	res, err := agg.Search(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 1 || res.Items[0].ID != "slow" {
		t.Errorf("completion order leaked into merge: %+v", res.Items)
	}
}
