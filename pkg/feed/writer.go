package feed

import (
	"encoding/xml"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

// WriterConfig holds the destination and metadata defaults of the published feed
type WriterConfig struct {
	Dir         string // output directory, created if missing
	FileName    string // defaults to feed.xml
	Title       string
	Link        string // public URL of the feed itself
	Description string
	Language    string
}

// Writer merges each new digest into the published feed file. The previous
// file, when present and parseable, contributes its metadata and entries;
// otherwise the feed is rebuilt from configuration defaults.
type Writer struct {
	cfg      WriterConfig
	sanitize *bluemonday.Policy
}

// NewWriter creates a feed writer for the given destination
func NewWriter(cfg WriterConfig) *Writer {
	if cfg.FileName == "" {
		cfg.FileName = "feed.xml"
	}
	return &Writer{cfg: cfg, sanitize: bluemonday.UGCPolicy()}
}

// Path returns the destination path of the published feed file
func (w *Writer) Path() string {
	return filepath.Join(w.cfg.Dir, w.cfg.FileName)
}

// Publish builds the full feed document in memory with the digest as the
// newest entry followed by all previous entries, then atomically replaces the
// feed file. Any failure leaves the previously published file untouched.
func (w *Writer) Publish(digest string, now time.Time) error {
	channel := &RSSChannel{
		Title:         w.cfg.Title,
		Link:          w.cfg.Link,
		Description:   w.cfg.Description,
		Language:      w.cfg.Language,
		LastBuildDate: now.Format(time.RFC1123Z),
	}

	prev := w.loadPrevious()
	if prev != nil {
		// keep metadata of the established feed over configuration defaults
		if prev.Title != "" {
			channel.Title = prev.Title
		}
		if prev.Link != "" {
			channel.Link = prev.Link
		}
		if prev.Description != "" {
			channel.Description = prev.Description
		}
		if prev.Language != "" {
			channel.Language = prev.Language
		}
	}

	// self link and the new entry both point at the feed's own address
	channel.AtomLink = &AtomLink{Href: channel.Link, Rel: "self", Type: "application/rss+xml"}

	items := []*RSSItem{w.newItem(digest, now, channel.Link)}
	if prev != nil {
		for _, item := range prev.Items {
			items = append(items, convertItem(item))
		}
	}
	channel.Items = items

	doc := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Content: "http://purl.org/rss/1.0/modules/content/",
		Channel: channel,
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal feed: %w", err)
	}

	return w.writeAtomic(append([]byte(xml.Header), data...))
}

// newItem builds the feed entry for the freshly generated digest
func (w *Writer) newItem(digest string, now time.Time, feedLink string) *RSSItem {
	return &RSSItem{
		Title:   "Digest " + now.Format("2006-01-02 15:04 MST"),
		Link:    feedLink,
		GUID:    "digest-" + now.Format("20060102T150405Z0700"),
		Content: &RSSContent{Body: w.sanitize.Sanitize(digest)},
		PubDate: now.Format(time.RFC1123Z),
	}
}

// loadPrevious reads the current feed file, nil when absent or unparseable
func (w *Writer) loadPrevious() *gofeed.Feed {
	data, err := os.ReadFile(w.Path())
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[WARN] failed to read %s, starting fresh: %v", w.Path(), err)
		}
		return nil
	}

	prev, err := gofeed.NewParser().ParseString(string(data))
	if err != nil {
		log.Printf("[WARN] failed to parse %s, starting fresh: %v", w.Path(), err)
		return nil
	}
	return prev
}

// convertItem re-emits a previously published entry preserving its identity
// and the content vs description distinction
func convertItem(item *gofeed.Item) *RSSItem {
	out := &RSSItem{
		Title: item.Title,
		Link:  item.Link,
		GUID:  item.GUID,
	}
	if out.GUID == "" {
		out.GUID = item.Link
	}

	if item.Content != "" {
		out.Content = &RSSContent{Body: item.Content}
	} else {
		out.Description = item.Description
	}

	switch {
	case item.PublishedParsed != nil:
		out.PubDate = item.PublishedParsed.Local().Format(time.RFC1123Z)
	case item.Published != "":
		if ts, err := parseDate(item.Published); err == nil {
			out.PubDate = ts.Local().Format(time.RFC1123Z)
		} else {
			log.Printf("[WARN] keeping unparseable date %q for entry %q", item.Published, item.Title)
			out.PubDate = item.Published
		}
	}

	return out
}

// dateLayouts are tried in order when reparsing a raw date string; layouts
// without a zone are interpreted as UTC
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %q", raw)
}

// writeAtomic replaces the feed file via temp file and rename so a concurrent
// reader never observes a partially written document
func (w *Writer) writeAtomic(data []byte) error {
	if err := os.MkdirAll(w.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(w.cfg.Dir, ".feed-*.xml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), w.Path()); err != nil {
		return fmt.Errorf("replace %s: %w", w.Path(), err)
	}
	return nil
}
