package source

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/kwonjungwook/short0812/internal/content"
	"github.com/kwonjungwook/short0812/internal/logger"
	"github.com/kwonjungwook/short0812/internal/viral"
)

// Simulated stands in for a scraping-based source: it emits a small
// randomized batch of internally consistent items per call. The shape
// and filtering behavior are the contract a real scraper would have to
// honor.
type Simulated struct {
	platform content.Platform
	titles   map[content.Country][]string
	creators []string
	buildURL func(seq int64, i int, creator string) string
	latency  time.Duration
	log      logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

const (
	simulatedMinItems  = 3
	simulatedItemSpan  = 5 // yields 3–7 items per call
	simulatedLatency   = 500 * time.Millisecond
	simulatedViewSpan  = 3_000_000
)

var tiktokTitles = map[content.Country][]string{
	content.CountryKR: {
		"대박 웃긴 강아지 리액션 모음",
		"하루만에 배우는 K-POP 커버댄스",
		"학교 급식 후기 영상",
		"대학생 공감 100% 번아웃 브이로그",
		"카페 사장님의 대혈단 이벤트",
	},
	content.CountryJP: {
		"おもしろ猫動画集",
		"トレンドダンスチャレンジ",
		"日本食リアクション",
		"アニメコスプレメイク",
		"東京ストリートファッション",
	},
	content.CountryUS: {
		"Crazy Pet Reactions Compilation",
		"Food Hack That Actually Works",
		"College Dorm Room Tour",
		"Street Interview Gone Wrong",
		"Celebrity Lookalike Pranks",
	},
}

var tiktokCreators = []string{
	"trendy_creator", "viral_master", "funny_clips", "daily_vlogs", "dance_star",
	"comedy_king", "foodie_love", "pet_lovers", "fashion_icon", "tech_guru",
}

var instagramTitles = map[content.Country][]string{
	content.CountryKR: {
		"메이크업 변신 리얼 타임",
		"서울 카페 투어 브이로그",
		"홈트레이닝 루틴 공개",
		"OOTD 패션 코디",
		"명품하울 언박싱",
	},
	content.CountryJP: {
		"メイクタイムラプス",
		"東京カフェ巡り",
		"フィットネスルーティン",
		"コーディネート紹介",
		"グルメツアー",
	},
	content.CountryUS: {
		"Get Ready With Me",
		"Coffee Shop Aesthetic",
		"Workout Transformation",
		"Fashion Haul Try-On",
		"Food Recipe Tutorial",
	},
}

var instagramCreators = []string{
	"fashion_guru", "beauty_queen", "fitness_lover", "food_blogger", "travel_diary",
	"style_icon", "makeup_artist", "daily_lifestyle", "healthy_living", "creative_soul",
}

// NewTikTok returns the simulated TikTok adapter.
func NewTikTok(log logger.Logger) *Simulated {
	return &Simulated{
		platform: content.PlatformTikTok,
		titles:   tiktokTitles,
		creators: tiktokCreators,
		buildURL: func(seq int64, i int, creator string) string {
			return fmt.Sprintf("https://www.tiktok.com/@%s/video/%d%d", creator, seq, i)
		},
		latency: simulatedLatency,
		log:     log,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewInstagram returns the simulated Instagram Reels adapter.
func NewInstagram(log logger.Logger) *Simulated {
	return &Simulated{
		platform: content.PlatformInstagram,
		titles:   instagramTitles,
		creators: instagramCreators,
		buildURL: func(seq int64, i int, creator string) string {
			return fmt.Sprintf("https://www.instagram.com/reel/%d_%d", seq, i)
		},
		latency: simulatedLatency,
		log:     log,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithLatency overrides the simulated network delay. Test hook.
func (s *Simulated) WithLatency(d time.Duration) *Simulated {
	s.latency = d
	return s
}

// WithSeed makes the random stream reproducible. Test hook.
func (s *Simulated) WithSeed(seed int64) *Simulated {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = rand.New(rand.NewSource(seed))
	return s
}

func (s *Simulated) Platform() content.Platform { return s.platform }

// Cost is zero: simulated sources consume no API quota.
func (s *Simulated) Cost() int { return 0 }

// Search emits 3–7 synthetic items inside the requested window, scored
// and filtered the same way a live source would be.
func (s *Simulated) Search(ctx context.Context, country content.Country, timeRangeHours int, minViews int64, now time.Time) ([]content.Item, error) {
	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if timeRangeHours < 1 {
		timeRangeHours = 1
	}
	titles := s.titles[country]
	if len(titles) == 0 {
		titles = s.titles[content.CountryUS]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := simulatedMinItems + s.rng.Intn(simulatedItemSpan)
	seq := now.UnixMilli()
	items := make([]content.Item, 0, n)

	for i := 0; i < n; i++ {
		hoursAgo := s.rng.Intn(timeRangeHours)
		title := titles[s.rng.Intn(len(titles))]
		creator := s.creators[s.rng.Intn(len(s.creators))]
		views := minViews + s.rng.Int63n(simulatedViewSpan)
		publishedAt := now.Add(-time.Duration(hoursAgo) * time.Hour)

		item := content.Item{
			ID:           fmt.Sprintf("%s_%s_%d_%d", s.platform, country, seq, i),
			Title:        title,
			ChannelTitle: "@" + creator,
			PublishedAt:  publishedAt,
			Thumbnail:    fmt.Sprintf("https://picsum.photos/400/300?random=%d_%d", seq, i),
			ViewCount:    views,
			LikeCount:    15000 + s.rng.Int63n(100000),
			CommentCount: 1500 + s.rng.Int63n(10000),
			Duration:     fmt.Sprintf("PT%dS", 10+s.rng.Intn(60)),
			URL:          s.buildURL(seq, i, creator),
			Platform:     s.platform,
			Country:      country,
			Category:     viral.Categorize(title, ""),
			ViralScore:   viral.Score(views, publishedAt, now),
			HoursAgo:     hoursAgo,
		}

		if item.ViralScore == 0 || item.ViewCount < minViews {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}
