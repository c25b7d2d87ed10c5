package source

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/kwonjungwook/short0812/internal/content"
	"github.com/kwonjungwook/short0812/internal/logger"
	"github.com/kwonjungwook/short0812/internal/viral"
)

const (
	// youtubeCallCost is the estimated quota units one full Search
	// consumes (chart list + capped keyword searches). Calibration
	// constant, not derived from exact API accounting.
	youtubeCallCost = 150

	// keywordSearchLimit caps how many trending keywords are searched
	// per call to conserve quota.
	keywordSearchLimit = 2

	chartMaxResults   = 50
	keywordMaxResults = 25

	defaultSearchTimeout = 15 * time.Second
)

// trendingKeywords are the per-country queries used to catch items the
// popularity chart misses.
var trendingKeywords = map[content.Country][]string{
	content.CountryKR: {"핫한", "대박", "화제", "급상승"},
	content.CountryJP: {"バズった", "話題", "トレンド", "急上昇"},
	content.CountryUS: {"viral", "trending", "breaking", "exploding"},
}

// YouTube queries the YouTube Data API for viral candidates. It is the
// only quota-metered adapter.
type YouTube struct {
	svc     *youtube.Service
	log     logger.Logger
	timeout time.Duration
}

// NewYouTube builds the adapter with an API-key authenticated client.
func NewYouTube(ctx context.Context, apiKey string, log logger.Logger) (*YouTube, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating youtube client: %w", err)
	}
	return &YouTube{svc: svc, log: log, timeout: defaultSearchTimeout}, nil
}

func (y *YouTube) Platform() content.Platform { return content.PlatformYouTube }

func (y *YouTube) Cost() int { return youtubeCallCost }

// Search merges the regional most-popular chart with a small number of
// trending-keyword searches, then normalizes, filters, and ranks. A
// failed keyword search is logged and skipped; only a failed chart
// call aborts the whole search.
func (y *YouTube) Search(ctx context.Context, country content.Country, timeRangeHours int, minViews int64, now time.Time) ([]content.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	chart, err := y.svc.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Chart("mostPopular").
		RegionCode(string(country)).
		MaxResults(chartMaxResults).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube most popular chart (%s): %w", country, err)
	}

	raw := append([]*youtube.Video{}, chart.Items...)

	publishedAfter := now.Add(-time.Duration(timeRangeHours) * time.Hour)
	keywords := trendingKeywords[country]
	if len(keywords) > keywordSearchLimit {
		keywords = keywords[:keywordSearchLimit]
	}
	for _, kw := range keywords {
		videos, err := y.searchKeyword(ctx, country, kw, publishedAfter)
		if err != nil {
			y.log.Warn("keyword search failed, skipping",
				logger.String("keyword", kw),
				logger.String("country", string(country)),
				logger.Error(err))
			continue
		}
		raw = append(raw, videos...)
	}

	items := y.normalize(raw, country, timeRangeHours, minViews, now)
	sort.Slice(items, func(i, j int) bool { return items[i].ViralScore > items[j].ViralScore })
	return items, nil
}

// searchKeyword runs one keyword query and resolves the hits to full
// video resources for statistics.
func (y *YouTube) searchKeyword(ctx context.Context, country content.Country, keyword string, publishedAfter time.Time) ([]*youtube.Video, error) {
	found, err := y.svc.Search.List([]string{"snippet"}).
		Q(keyword).
		Type("video").
		RegionCode(string(country)).
		PublishedAfter(publishedAfter.UTC().Format(time.RFC3339)).
		Order("viewCount").
		MaxResults(keywordMaxResults).
		Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(found.Items))
	for _, it := range found.Items {
		if it.Id != nil && it.Id.VideoId != "" {
			ids = append(ids, it.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	resolved, err := y.svc.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(strings.Join(ids, ",")).
		Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resolved.Items, nil
}

// normalize converts raw video resources to content items, dropping
// duplicates by id and anything below the view floor or outside the
// requested window.
func (y *YouTube) normalize(raw []*youtube.Video, country content.Country, timeRangeHours int, minViews int64, now time.Time) []content.Item {
	seen := make(map[string]bool, len(raw))
	items := make([]content.Item, 0, len(raw))

	for _, v := range raw {
		if v == nil || v.Snippet == nil || seen[v.Id] {
			continue
		}
		seen[v.Id] = true

		var views, likes, comments int64
		if v.Statistics != nil {
			views = int64(v.Statistics.ViewCount)
			likes = int64(v.Statistics.LikeCount)
			comments = int64(v.Statistics.CommentCount)
		}
		if views < minViews {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt)
		if err != nil {
			continue
		}

		hoursAgo := viral.HoursSince(publishedAt, now)
		if hoursAgo > timeRangeHours {
			continue
		}
		score := viral.Score(views, publishedAt, now)
		if score == 0 {
			continue
		}

		duration := "PT0S"
		if v.ContentDetails != nil && v.ContentDetails.Duration != "" {
			duration = v.ContentDetails.Duration
		}

		items = append(items, content.Item{
			ID:           v.Id,
			Title:        v.Snippet.Title,
			ChannelTitle: v.Snippet.ChannelTitle,
			PublishedAt:  publishedAt,
			Thumbnail:    thumbnailURL(v.Snippet.Thumbnails),
			ViewCount:    views,
			LikeCount:    likes,
			CommentCount: comments,
			Duration:     duration,
			URL:          "https://www.youtube.com/watch?v=" + v.Id,
			Platform:     content.PlatformYouTube,
			Country:      country,
			Category:     viral.Categorize(v.Snippet.Title, v.Snippet.Description),
			ViralScore:   score,
			HoursAgo:     hoursAgo,
		})
	}
	return items
}

func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	if t.Medium != nil && t.Medium.Url != "" {
		return t.Medium.Url
	}
	if t.Default != nil {
		return t.Default.Url
	}
	return ""
}
