package feed

import "time"

// Entry is a single normalized feed entry as returned by the fetcher.
// Immutable once produced.
type Entry struct {
	Title        string
	Link         string
	Published    time.Time // zero when the source date could not be parsed
	PublishedRaw string    // original date string as carried by the source
	Summary      string
}
