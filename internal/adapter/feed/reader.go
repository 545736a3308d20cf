package feed

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/ressKim-io/NewsMind/api-service/internal/domain/service"
)

var errNoItems = errors.New("feed has no items")

// Reader parses RSS, Atom and JSON feeds over HTTP
type Reader struct {
	parser *gofeed.Parser
}

// NewReader creates a feed reader with the given request timeout and user agent
func NewReader(timeout time.Duration, userAgent string) *Reader {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &Reader{parser: parser}
}

// Read fetches feedURL and returns its items in feed order.
// All failures are returned as *service.ResolutionError.
func (r *Reader) Read(ctx context.Context, feedURL string) (*service.Feed, error) {
	parsed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, &service.ResolutionError{URL: feedURL, Err: service.StripURL(err)}
	}
	if len(parsed.Items) == 0 {
		return nil, &service.ResolutionError{URL: feedURL, Err: errNoItems}
	}

	feed := &service.Feed{
		URL:   feedURL,
		Title: strings.TrimSpace(parsed.Title),
		Items: make([]service.FeedItem, 0, len(parsed.Items)),
	}
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		fi := service.FeedItem{
			Title: strings.TrimSpace(item.Title),
			Link:  strings.TrimSpace(item.Link),
		}
		if item.PublishedParsed != nil {
			fi.Published = item.PublishedParsed.UTC().Format(time.RFC3339)
		}
		feed.Items = append(feed.Items, fi)
	}
	return feed, nil
}
