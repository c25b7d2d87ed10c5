// Package source holds the per-platform adapters. Each adapter turns a
// (country, time window, minimum views) request into normalized
// content items with category and viral score already computed.
package source

import (
	"context"
	"time"

	"github.com/kwonjungwook/short0812/internal/content"
)

// Adapter discovers content on one platform. Implementations return a
// possibly empty slice or a platform-specific error; callers treat a
// failed adapter as contributing nothing, never as fatal.
type Adapter interface {
	// Platform identifies which platform this adapter serves.
	Platform() content.Platform

	// Cost is the estimated quota units one Search invocation
	// consumes. Zero for adapters that are not API-metered.
	Cost() int

	// Search returns items for the country published within the last
	// timeRangeHours with at least minViews views. Scoring uses the
	// supplied now so results are deterministic for a single request.
	Search(ctx context.Context, country content.Country, timeRangeHours int, minViews int64, now time.Time) ([]content.Item, error)
}
