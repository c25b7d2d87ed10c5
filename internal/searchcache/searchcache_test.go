package searchcache

import (
	"testing"
	"time"

	"github.com/kwonjungwook/short0812/internal/content"
	"github.com/kwonjungwook/short0812/internal/logger"
	"github.com/kwonjungwook/short0812/internal/storage"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	store, err := storage.Open(t.TempDir(), logger.NewNop())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	return New(store, logger.NewNop())
}

func sampleItems(n int) []content.Item {
	items := make([]content.Item, n)
	for i := range items {
		items[i] = content.Item{
			ID:         "vid" + string(rune('a'+i)),
			Title:      "Title",
			Platform:   content.PlatformYouTube,
			Country:    content.CountryUS,
			ViralScore: int64(1000 * (i + 1)),
		}
	}
	return items
}

func TestFingerprintOrderIndependent(t *testing.T) {
	a := Fingerprint([]string{"KR", "US"}, []string{"youtube", "tiktok"}, []string{"beauty", "animals"}, 24, 500000)
	b := Fingerprint([]string{"US", "KR"}, []string{"tiktok", "youtube"}, []string{"animals", "beauty"}, 24, 500000)
	if a != b {
		t.Errorf("fingerprint depends on set order:\n%s\n%s", a, b)
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	base := Fingerprint([]string{"KR"}, []string{"youtube"}, nil, 24, 500000)

	variants := []string{
		Fingerprint([]string{"US"}, []string{"youtube"}, nil, 24, 500000),
		Fingerprint([]string{"KR"}, []string{"tiktok"}, nil, 24, 500000),
		Fingerprint([]string{"KR"}, []string{"youtube"}, []string{"beauty"}, 24, 500000),
		Fingerprint([]string{"KR"}, []string{"youtube"}, nil, 48, 500000),
		Fingerprint([]string{"KR"}, []string{"youtube"}, nil, 24, 100000),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collides with base fingerprint %q", i, base)
		}
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	c := testCache(t)
	items := sampleItems(3)
	fp := Fingerprint([]string{"US"}, []string{"youtube"}, nil, 24, 500000)

	if err := c.Put(fp, items); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok := c.Get(fp)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 3 || got[0].ID != items[0].ID || got[2].ViralScore != 3000 {
		t.Errorf("payload mismatch: %+v", got)
	}
}

func TestGetExpiredIdempotent(t *testing.T) {
	c := testCache(t)
	fp := Fingerprint([]string{"US"}, []string{"youtube"}, nil, 24, 500000)

	base := time.Now()
	c.WithNow(func() time.Time { return base })
	if err := c.Put(fp, sampleItems(2)); err != nil {
		t.Fatal(err)
	}

	// Jump past the TTL; both lookups must miss without panicking.
	c.WithNow(func() time.Time { return base.Add(31 * time.Minute) })
	for i := 0; i < 2; i++ {
		if _, ok := c.Get(fp); ok {
			t.Fatalf("lookup %d: expired entry served", i)
		}
	}

	// Expire-on-read must have deleted the entry.
	if stats := c.Stats(); len(stats.Keys) != 0 {
		t.Errorf("expired entry still present: %v", stats.Keys)
	}
}

func TestPutSweepsStaleEntries(t *testing.T) {
	c := testCache(t)
	base := time.Now()

	c.WithNow(func() time.Time { return base })
	if err := c.Put("old", sampleItems(1)); err != nil {
		t.Fatal(err)
	}

	// An hour later the first entry is past 2×TTL and a write evicts it.
	c.WithNow(func() time.Time { return base.Add(61 * time.Minute) })
	if err := c.Put("fresh", sampleItems(1)); err != nil {
		t.Fatal(err)
	}

	stats := c.Stats()
	if len(stats.Keys) != 1 || stats.Keys[0] != "fresh" {
		t.Errorf("sweep left keys %v, want [fresh]", stats.Keys)
	}
}

func TestStats(t *testing.T) {
	c := testCache(t)
	base := time.Now()

	c.WithNow(func() time.Time { return base })
	if err := c.Put("a", sampleItems(2)); err != nil {
		t.Fatal(err)
	}

	// 40 minutes: "a" is expired but not yet sweep-eligible (< 2×TTL).
	c.WithNow(func() time.Time { return base.Add(40 * time.Minute) })
	if err := c.Put("b", sampleItems(3)); err != nil {
		t.Fatal(err)
	}

	stats := c.Stats()
	if stats.ActiveCount != 1 || stats.ExpiredCount != 1 {
		t.Errorf("active=%d expired=%d, want 1/1", stats.ActiveCount, stats.ExpiredCount)
	}
	if stats.TotalItemCount != 5 {
		t.Errorf("totalItemCount = %d, want 5", stats.TotalItemCount)
	}
}

func TestInfo(t *testing.T) {
	c := testCache(t)
	base := time.Now()
	fp := "fp"

	c.WithNow(func() time.Time { return base })
	if err := c.Put(fp, sampleItems(1)); err != nil {
		t.Fatal(err)
	}

	c.WithNow(func() time.Time { return base.Add(10 * time.Minute) })
	info, ok := c.Info(fp)
	if !ok {
		t.Fatal("expected info for valid entry")
	}
	if info.AgeMinutes != 10 {
		t.Errorf("ageMinutes = %d, want 10", info.AgeMinutes)
	}
	if info.RemainingMinutes < 20 || info.RemainingMinutes > 21 {
		t.Errorf("remainingMinutes = %d, want ~20", info.RemainingMinutes)
	}

	c.WithNow(func() time.Time { return base.Add(31 * time.Minute) })
	if _, ok := c.Info(fp); ok {
		t.Error("Info returned data for expired entry")
	}
}

func TestClear(t *testing.T) {
	c := testCache(t)
	if err := c.Put("x", sampleItems(1)); err != nil {
		t.Fatal(err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if stats := c.Stats(); len(stats.Keys) != 0 {
		t.Errorf("keys after clear: %v", stats.Keys)
	}
}
