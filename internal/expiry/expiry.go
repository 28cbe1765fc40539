// Package expiry selects catalog items whose expiry date falls inside a look-ahead window.
package expiry

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// maxHorizonDays is the largest horizon whose window end fits in a time.Duration.
const maxHorizonDays = int(math.MaxInt64 / int64(day))

// Item is the projection of a product the selector works on.
type Item struct {
	ID     string
	Expiry time.Time
	Stock  int
}

// Select returns the ids of items expiring between now and now+horizonDays, both ends included.
// Input order is preserved. A negative horizon yields an inverted window and therefore no items.
// Horizons beyond maxHorizonDays leave the window open-ended.
func Select(items []Item, horizonDays int, now time.Time) []string {
	bounded := horizonDays <= maxHorizonDays
	var until time.Time
	if bounded {
		until = now.Add(time.Duration(horizonDays) * day)
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it.Expiry.Before(now) || (bounded && it.Expiry.After(until)) {
			continue
		}
		ids = append(ids, it.ID)
	}
	return ids
}
