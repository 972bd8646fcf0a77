package feed

import (
	"log"
	"time"
)

// DefaultLookback is used when the configured lookback window is not positive
const DefaultLookback = 24 * time.Hour

// FilterRecent returns the subsequence of entries published strictly after
// now-lookback. Entries without a parseable publication time are dropped.
func FilterRecent(entries []Entry, lookback time.Duration, now time.Time) []Entry {
	if lookback <= 0 {
		log.Printf("[WARN] invalid lookback window %v, using default %v", lookback, DefaultLookback)
		lookback = DefaultLookback
	}

	cutoff := now.Add(-lookback)
	recent := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Published.IsZero() {
			log.Printf("[WARN] dropping entry without parseable date: %q (published: %q)", e.Title, e.PublishedRaw)
			continue
		}
		if e.Published.After(cutoff) {
			recent = append(recent, e)
		}
	}

	return recent
}
