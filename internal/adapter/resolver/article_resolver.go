package resolver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"

	"github.com/ressKim-io/NewsMind/api-service/internal/domain/service"
)

// DefaultMaxBodyBytes caps how much of a page is read
const DefaultMaxBodyBytes = 5 << 20

// nonContentSelectors lists elements to strip before extracting body text
const nonContentSelectors = "script, style, noscript, nav, header, footer, aside"

var errEmptyPage = errors.New("empty response body")

// Options configures an ArticleResolver
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// ArticleResolver downloads a page and extracts its title and article text
type ArticleResolver struct {
	httpClient   *http.Client
	userAgent    string
	maxBodyBytes int64
}

// NewArticleResolver creates a new ArticleResolver
func NewArticleResolver(opts Options) *ArticleResolver {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &ArticleResolver{
		httpClient:   &http.Client{Timeout: opts.Timeout},
		userAgent:    opts.UserAgent,
		maxBodyBytes: opts.MaxBodyBytes,
	}
}

// Resolve fetches rawURL and extracts its article. All failures are
// returned as *service.ResolutionError.
func (r *ArticleResolver) Resolve(ctx context.Context, rawURL string) (*service.Article, error) {
	pageURL, err := parseArticleURL(rawURL)
	if err != nil {
		return nil, &service.ResolutionError{URL: rawURL, Err: err}
	}

	page, err := r.download(ctx, pageURL)
	if err != nil {
		return nil, &service.ResolutionError{URL: rawURL, Err: err}
	}

	article, err := extract(page, pageURL)
	if err != nil {
		return nil, &service.ResolutionError{URL: rawURL, Err: err}
	}
	return article, nil
}

func parseArticleURL(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("empty URL")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", service.StripURL(err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("invalid URL: scheme must be http or https")
	}
	if u.Host == "" {
		return nil, errors.New("invalid URL: missing host")
	}
	return u, nil
}

// download returns the page body decoded to UTF-8
func (r *ArticleResolver) download(ctx context.Context, pageURL *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download article: %w", service.StripURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("article returned status %d", resp.StatusCode)
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, r.maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("unsupported page encoding: %w", err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read article: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errEmptyPage
	}
	return body, nil
}

// extract prefers readability output and falls back to selector-based
// extraction for whichever of title or body it left empty
func extract(page []byte, pageURL *url.URL) (*service.Article, error) {
	article := &service.Article{URL: pageURL.String()}

	if parsed, err := readability.FromReader(bytes.NewReader(page), pageURL); err == nil {
		article.Title = collapseSpace(parsed.Title)
		article.Body = collapseSpace(parsed.TextContent)
	}
	if article.Title != "" && article.Body != "" {
		return article, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	if article.Title == "" {
		article.Title = extractPageTitle(doc)
	}
	if article.Body == "" {
		article.Body = extractBodyText(doc)
	}
	return article, nil
}

// extractPageTitle prefers og:title, then <title>, then the first <h1>
func extractPageTitle(doc *goquery.Document) string {
	if ogTitle, exists := doc.Find("meta[property='og:title']").Attr("content"); exists {
		if title := collapseSpace(ogTitle); title != "" {
			return title
		}
	}
	if title := collapseSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return collapseSpace(doc.Find("h1").First().Text())
}

// extractBodyText prefers <article> content and falls back to <body>
func extractBodyText(doc *goquery.Document) string {
	for _, selector := range []string{"article", "body"} {
		node := doc.Find(selector).First()
		if node.Length() == 0 {
			continue
		}
		node.Find(nonContentSelectors).Remove()
		if text := collapseSpace(node.Text()); text != "" {
			return text
		}
	}
	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
