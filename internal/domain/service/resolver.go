package service

import "context"

// Article is the text extracted from a web page
type Article struct {
	URL   string
	Title string
	Body  string
}

// ArticleResolver fetches a URL and extracts its article text.
// Failures are returned as *ResolutionError.
type ArticleResolver interface {
	Resolve(ctx context.Context, url string) (*Article, error)
}
