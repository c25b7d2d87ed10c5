// Package content defines the canonical item schema shared by every
// platform adapter and the aggregation pipeline. Adapters normalize raw
// platform records into Item so downstream code never special-cases
// per-platform shapes.
package content

import "time"

// Platform identifies where an item was discovered.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
)

// AllPlatforms returns the supported platforms in canonical order.
func AllPlatforms() []Platform {
	return []Platform{PlatformYouTube, PlatformTikTok, PlatformInstagram}
}

// ValidPlatform reports whether code names a supported platform.
func ValidPlatform(code string) bool {
	for _, p := range AllPlatforms() {
		if string(p) == code {
			return true
		}
	}
	return false
}

// Country is an ISO 3166-1 alpha-2 country code.
type Country string

const (
	CountryKR Country = "KR"
	CountryJP Country = "JP"
	CountryUS Country = "US"
)

// AllCountries returns the supported countries in canonical order.
func AllCountries() []Country {
	return []Country{CountryKR, CountryJP, CountryUS}
}

// Item is one discovered piece of short-form content, normalized across
// platforms. ViralScore and HoursAgo are derived at query time from
// ViewCount and PublishedAt; they are never a source of truth on their
// own.
type Item struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channelTitle"`
	PublishedAt  time.Time `json:"publishedAt"`
	Thumbnail    string    `json:"thumbnail"`
	ViewCount    int64     `json:"viewCount"`
	LikeCount    int64     `json:"likeCount"`
	CommentCount int64     `json:"commentCount"`
	Duration     string    `json:"duration"`
	URL          string    `json:"url"`
	Platform     Platform  `json:"platform"`
	Country      Country   `json:"country"`
	Category     string    `json:"category"`
	ViralScore   int64     `json:"viralScore"`
	HoursAgo     int       `json:"hoursAgo"`
	Collected    bool      `json:"collected"`
}
