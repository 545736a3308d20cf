package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/NewsMind/api-service/internal/domain/service"
)

const articlePage = `<!DOCTYPE html>
<html>
<head>
  <title>Senate passes infrastructure bill</title>
  <meta property="og:title" content="Senate passes infrastructure bill">
</head>
<body>
  <nav>Home Politics World</nav>
  <article>
    <h1>Senate passes infrastructure bill</h1>
    <p>The Senate on Tuesday approved a sweeping infrastructure package after weeks of negotiation between party leaders.</p>
    <p>Supporters said the bill would repair roads and bridges across the country, while critics questioned its long-term cost.</p>
  </article>
  <footer>Copyright</footer>
</body>
</html>`

func newTestResolver() *ArticleResolver {
	return NewArticleResolver(Options{Timeout: 5 * time.Second, UserAgent: "newsmind-test"})
}

func serve(t *testing.T, status int, contentType, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "newsmind-test", r.Header.Get("User-Agent"))
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestArticleResolver_Resolve(t *testing.T) {
	t.Run("extracts title and body", func(t *testing.T) {
		server := serve(t, http.StatusOK, "text/html; charset=utf-8", articlePage)
		defer server.Close()

		article, err := newTestResolver().Resolve(context.Background(), server.URL+"/news/1")

		require.NoError(t, err)
		assert.Contains(t, article.Title, "Senate passes infrastructure bill")
		assert.Contains(t, article.Body, "approved a sweeping infrastructure package")
		assert.Equal(t, server.URL+"/news/1", article.URL)
	})

	t.Run("page without text yields empty article", func(t *testing.T) {
		server := serve(t, http.StatusOK, "text/html", "<html><head></head><body></body></html>")
		defer server.Close()

		article, err := newTestResolver().Resolve(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Empty(t, article.Title)
		assert.Empty(t, article.Body)
	})

	t.Run("decodes legacy charsets", func(t *testing.T) {
		page := "<html><head><title>Caf\xe9 owners protest new tax</title></head><body><p>Owners gathered downtown.</p></body></html>"
		server := serve(t, http.StatusOK, "text/html; charset=iso-8859-1", page)
		defer server.Close()

		article, err := newTestResolver().Resolve(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Contains(t, article.Title, "Café owners protest new tax")
	})

	t.Run("non-2xx status is a ResolutionError", func(t *testing.T) {
		server := serve(t, http.StatusNotFound, "text/html", "not found")
		defer server.Close()

		_, err := newTestResolver().Resolve(context.Background(), server.URL)

		var resErr *service.ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Contains(t, err.Error(), "404")
		assert.Equal(t, server.URL, resErr.URL)
	})

	t.Run("empty body is a ResolutionError", func(t *testing.T) {
		server := serve(t, http.StatusOK, "text/html", "   ")
		defer server.Close()

		_, err := newTestResolver().Resolve(context.Background(), server.URL)

		var resErr *service.ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.ErrorIs(t, err, errEmptyPage)
	})

	t.Run("connection failure is a ResolutionError", func(t *testing.T) {
		_, err := newTestResolver().Resolve(context.Background(), "http://localhost:99999/article")

		var resErr *service.ResolutionError
		assert.ErrorAs(t, err, &resErr)
	})

	t.Run("download failure message omits the URL", func(t *testing.T) {
		server := serve(t, http.StatusOK, "text/html", articlePage)
		link := server.URL + "/politics/story-42"
		server.Close()

		_, err := newTestResolver().Resolve(context.Background(), link)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to download article")
		assert.NotContains(t, err.Error(), link)
	})

	t.Run("cancelled context is a ResolutionError", func(t *testing.T) {
		server := serve(t, http.StatusOK, "text/html", articlePage)
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestResolver().Resolve(ctx, server.URL)

		var resErr *service.ResolutionError
		assert.ErrorAs(t, err, &resErr)
	})

	t.Run("body is capped", func(t *testing.T) {
		page := "<html><head><title>Capped</title></head><body><p>" + strings.Repeat("word ", 1000) + "</p></body></html>"
		server := serve(t, http.StatusOK, "text/html", page)
		defer server.Close()

		r := NewArticleResolver(Options{Timeout: 5 * time.Second, UserAgent: "newsmind-test", MaxBodyBytes: 64})
		article, err := r.Resolve(context.Background(), server.URL)

		require.NoError(t, err)
		assert.LessOrEqual(t, len(article.Body), 64)
	})
}

func TestParseArticleURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "https", input: "https://example.com/news/1"},
		{name: "http with spaces", input: "  http://example.com/a  "},
		{name: "empty", input: "", wantErr: "empty URL"},
		{name: "ftp scheme", input: "ftp://example.com/file", wantErr: "scheme"},
		{name: "no scheme", input: "example.com/news", wantErr: "scheme"},
		{name: "missing host", input: "https:///path", wantErr: "missing host"},
		{name: "unparsable", input: "http://[::1", wantErr: "invalid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := parseArticleURL(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				if tt.input != "" {
					assert.NotContains(t, err.Error(), tt.input)
				}
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, u.Host)
		})
	}
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "a b c", collapseSpace("  a\n\tb   c "))
	assert.Equal(t, "", collapseSpace(" \n "))
}
