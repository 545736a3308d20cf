package service

import "context"

// FeedItem is one entry of a news feed
type FeedItem struct {
	Title     string
	Link      string
	Published string
}

// Feed is a parsed RSS, Atom or JSON feed
type Feed struct {
	URL   string
	Title string
	Items []FeedItem
}

// FeedReader fetches and parses a news feed.
// Failures are returned as *ResolutionError.
type FeedReader interface {
	Read(ctx context.Context, url string) (*Feed, error)
}
