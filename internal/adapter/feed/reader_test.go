package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/NewsMind/api-service/internal/domain/service"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Politics Desk</title>
    <link>https://news.example.com</link>
    <item>
      <title>  Opposition criticizes tax cuts for the wealthy </title>
      <link>https://news.example.com/tax</link>
      <pubDate>Mon, 05 Oct 2026 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Supreme Court delivers verdict on voting rights case</title>
      <link>https://news.example.com/court</link>
    </item>
  </channel>
</rss>`

const atomFixture = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Economy</title>
  <entry>
    <title>Market reacts to President's new economic reforms</title>
    <link href="https://news.example.com/markets"/>
    <id>urn:1</id>
    <updated>2026-10-05T10:00:00Z</updated>
  </entry>
</feed>`

func feedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "NewsMindTest/1.0", r.Header.Get("User-Agent"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestReader_Read(t *testing.T) {
	reader := NewReader(5*time.Second, "NewsMindTest/1.0")

	t.Run("parses RSS items in order", func(t *testing.T) {
		server := feedServer(t, http.StatusOK, rssFixture)
		defer server.Close()

		feed, err := reader.Read(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "Politics Desk", feed.Title)
		require.Len(t, feed.Items, 2)
		assert.Equal(t, "Opposition criticizes tax cuts for the wealthy", feed.Items[0].Title)
		assert.Equal(t, "https://news.example.com/tax", feed.Items[0].Link)
		assert.Equal(t, "2026-10-05T10:00:00Z", feed.Items[0].Published)
		assert.Empty(t, feed.Items[1].Published)
	})

	t.Run("parses Atom entries", func(t *testing.T) {
		server := feedServer(t, http.StatusOK, atomFixture)
		defer server.Close()

		feed, err := reader.Read(context.Background(), server.URL)

		require.NoError(t, err)
		require.Len(t, feed.Items, 1)
		assert.Equal(t, "https://news.example.com/markets", feed.Items[0].Link)
	})

	t.Run("http error is a resolution error", func(t *testing.T) {
		server := feedServer(t, http.StatusNotFound, "gone")
		defer server.Close()

		_, err := reader.Read(context.Background(), server.URL)

		var resErr *service.ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, server.URL, resErr.URL)
	})

	t.Run("unreachable feed message omits the URL", func(t *testing.T) {
		server := feedServer(t, http.StatusOK, "")
		link := server.URL + "/rss/politics.xml"
		server.Close()

		_, err := reader.Read(context.Background(), link)

		var resErr *service.ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, link, resErr.URL)
		assert.NotContains(t, err.Error(), link)
	})

	t.Run("empty feed is a resolution error", func(t *testing.T) {
		server := feedServer(t, http.StatusOK, `<rss version="2.0"><channel><title>Empty</title></channel></rss>`)
		defer server.Close()

		_, err := reader.Read(context.Background(), server.URL)

		var resErr *service.ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Contains(t, err.Error(), "feed has no items")
	})
}
