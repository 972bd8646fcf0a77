package feed

import (
	"encoding/xml"
)

// RSS represents the root RSS 2.0 element of the published feed
type RSS struct {
	XMLName xml.Name    `xml:"rss"`
	Version string      `xml:"version,attr"`
	Atom    string      `xml:"xmlns:atom,attr"`
	Content string      `xml:"xmlns:content,attr"`
	Channel *RSSChannel `xml:"channel"`
}

// RSSChannel represents an RSS channel
type RSSChannel struct {
	XMLName       xml.Name   `xml:"channel"`
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	Description   string     `xml:"description"`
	Language      string     `xml:"language,omitempty"`
	AtomLink      *AtomLink  // rendered as atom:link, skipped when nil
	LastBuildDate string     `xml:"lastBuildDate"`
	Items         []*RSSItem `xml:"item"`
}

// AtomLink represents the atom:link self reference within RSS. The prefixed
// element name keeps it distinct from the channel link element when the
// published file is parsed back.
type AtomLink struct {
	XMLName xml.Name `xml:"atom:link"`
	Href    string   `xml:"href,attr"`
	Rel     string   `xml:"rel,attr"`
	Type    string   `xml:"type,attr"`
}

// RSSItem represents an item in the published RSS feed
type RSSItem struct {
	Title       string      `xml:"title"`
	Link        string      `xml:"link"`
	GUID        string      `xml:"guid"`
	Description string      `xml:"description,omitempty"`
	Content     *RSSContent // rendered as content:encoded, skipped when nil
	PubDate     string      `xml:"pubDate"`
}

// RSSContent holds rich HTML content of an item as content:encoded
type RSSContent struct {
	XMLName xml.Name `xml:"content:encoded"`
	Body    string   `xml:",cdata"`
}
