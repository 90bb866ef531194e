package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-sync/pkg/httpclient"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Test Feed</title>
		<link>https://example.com</link>
		<item>
			<title>Article 1</title>
			<link>https://example.com/article1</link>
			<pubDate>Thu, 11 Dec 2025 00:00:00 GMT</pubDate>
		</item>
		<item>
			<title>No link</title>
		</item>
		<item>
			<title>Article 2</title>
			<link>https://example.com/article2</link>
		</item>
	</channel>
</rss>`

func rssServer(body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
}

func TestFeedSource_Entries(t *testing.T) {
	server := rssServer(testRSS)
	defer server.Close()

	for name, client := range map[string]*httpclient.HTTPClient{
		"gofeed client": nil,
		"shared client": httpclient.NewClient(httpclient.BrowserClient, 0),
	} {
		t.Run(name, func(t *testing.T) {
			entries, err := NewFeedSource(server.URL, client).Entries(context.Background())
			require.NoError(t, err)

			require.Len(t, entries, 2)
			assert.Equal(t, "Article 1", entries[0].Title)
			assert.Equal(t, "https://example.com/article1", entries[0].URL)
			assert.Equal(t, "2025-12-11T00:00:00Z", entries[0].CreatedTime)
			assert.Equal(t, "https://example.com/article2", entries[1].URL)
			assert.Empty(t, entries[1].CreatedTime)
		})
	}
}

func TestFeedSource_EmptyFeed(t *testing.T) {
	server := rssServer(`<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`)
	defer server.Close()

	_, err := NewFeedSource(server.URL, nil).Entries(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed contains no items")
}
