// Package viral holds the pure ranking primitives: the time-decayed
// popularity score and the keyword category classifier. Both are
// deterministic given an explicit "now" so callers stay testable
// without clock mocking.
package viral

import "time"

// EligibilityWindowHours is how long after publish an item can still
// score. Beyond it the score is zero and the item is excluded
// downstream.
const EligibilityWindowHours = 72

// HoursSince returns the whole hours elapsed between publishedAt and
// now, floored at zero for future timestamps.
func HoursSince(publishedAt, now time.Time) int {
	h := int(now.Sub(publishedAt).Hours())
	if h < 0 {
		return 0
	}
	return h
}

// Score computes the viral score for an item: view count weighted by
// linear recency decay. The weight is 72 within the first hour and
// falls to 1 at the 72-hour boundary; older items score zero.
func Score(viewCount int64, publishedAt, now time.Time) int64 {
	hoursAgo := HoursSince(publishedAt, now)
	if hoursAgo > EligibilityWindowHours {
		return 0
	}
	weight := int64(EligibilityWindowHours + 1 - hoursAgo)
	if weight < 1 {
		weight = 1
	}
	return viewCount * weight
}
