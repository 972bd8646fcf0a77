package feed

import (
	"context"
	"log"
	"sort"
	"time"
)

// Fetcher retrieves and parses RSS/Atom feeds
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]Entry, error)
}

// Aggregator collects recent entries from multiple feed sources
type Aggregator struct {
	fetcher  Fetcher
	lookback time.Duration
}

// NewAggregator creates a new aggregator over the given fetcher
func NewAggregator(fetcher Fetcher, lookback time.Duration) *Aggregator {
	return &Aggregator{fetcher: fetcher, lookback: lookback}
}

// Collect fetches all sources, filters entries by recency and returns the
// combined list sorted by publication time, newest first. A failed source
// contributes nothing and does not abort the collection.
func (a *Aggregator) Collect(ctx context.Context, sources []string) []Entry {
	combined := make([]Entry, 0)
	now := time.Now()

	for _, src := range sources {
		entries, err := a.fetcher.Fetch(ctx, src)
		if err != nil {
			log.Printf("[WARN] failed to fetch %s: %v", src, err)
			continue
		}

		recent := FilterRecent(entries, a.lookback, now)
		log.Printf("[INFO] %s: %d entries, %d within lookback window", src, len(entries), len(recent))
		combined = append(combined, recent...)
	}

	// newest first, entries without a parsed date go last
	sort.SliceStable(combined, func(i, j int) bool {
		if combined[i].Published.IsZero() {
			return false
		}
		if combined[j].Published.IsZero() {
			return true
		}
		return combined[i].Published.After(combined[j].Published)
	})

	return combined
}
