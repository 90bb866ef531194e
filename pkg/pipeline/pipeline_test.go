package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-sync/pkg/content"
	"content-sync/pkg/domain"
	"content-sync/pkg/httpclient"
	"content-sync/pkg/source"
)

type mockWebExtractor struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
	delay func(url string) time.Duration
}

func (m *mockWebExtractor) Extract(ctx context.Context, url string) content.Result[domain.ExtractedWebContent] {
	if m.delay != nil {
		time.Sleep(m.delay(url))
	}
	m.mu.Lock()
	m.calls = append(m.calls, url)
	m.mu.Unlock()
	if m.fail[url] {
		return content.Result[domain.ExtractedWebContent]{Content: content.WebFallback(url), Err: errors.New("fetch failed")}
	}
	return content.Result[domain.ExtractedWebContent]{Content: domain.ExtractedWebContent{Title: "page " + url, URL: url}}
}

type mockYouTubeExtractor struct{}

func (m *mockYouTubeExtractor) Extract(ctx context.Context, url string) content.Result[domain.ExtractedYouTubeContent] {
	return content.Result[domain.ExtractedYouTubeContent]{Content: domain.ExtractedYouTubeContent{Title: "scraped", URL: url, VideoID: "id"}}
}

func TestOrchestrator_Run_OrderAndEnrichment(t *testing.T) {
	web := &mockWebExtractor{
		// later inputs finish first
		delay: func(url string) time.Duration {
			if url == "https://a.example/1" {
				return 30 * time.Millisecond
			}
			return 0
		},
		fail: map[string]bool{"https://a.example/2": true},
	}
	o := NewOrchestrator(web, &mockYouTubeExtractor{}, nil)

	entries := []domain.Entry{
		{Title: "Video", URL: "https://www.youtube.com/watch?v=abc12345678", CreatedTime: "2024-01-02T00:00:00Z"},
		{Title: "One", URL: "https://a.example/1", CreatedTime: "2024-01-01T00:00:00Z"},
		{Title: "", URL: ""},
		{Title: "Two", URL: "https://a.example/2"},
	}

	records := o.Run(context.Background(), entries)

	require.Len(t, records, 3)
	assert.Equal(t, "https://a.example/1", records[0].URL())
	assert.Equal(t, "https://a.example/2", records[1].URL())
	assert.Equal(t, "https://www.youtube.com/watch?v=abc12345678", records[2].URL())

	assert.Equal(t, "2024-01-01T00:00:00Z", records[0].ConsumedAt)
	assert.Equal(t, "page https://a.example/1", records[0].Title(), "web titles are not overridden")
	assert.Empty(t, records[1].ConsumedAt)
	assert.True(t, records[1].Fallback())
	assert.Equal(t, content.WebFallbackTitle, records[1].Title())

	assert.Equal(t, domain.KindYouTube, records[2].Kind)
	assert.Equal(t, "Video", records[2].Title())
	assert.Equal(t, "2024-01-02T00:00:00Z", records[2].ConsumedAt)
}

func TestOrchestrator_Run_Empty(t *testing.T) {
	o := NewOrchestrator(&mockWebExtractor{}, &mockYouTubeExtractor{}, nil)
	assert.Empty(t, o.Run(context.Background(), nil))
}

func TestOrchestrator_Run_DuplicateURLsUseFirstEntry(t *testing.T) {
	o := NewOrchestrator(&mockWebExtractor{}, &mockYouTubeExtractor{}, nil)
	records := o.Run(context.Background(), []domain.Entry{
		{URL: "https://a.example/p", CreatedTime: "first"},
		{URL: "https://a.example/p", CreatedTime: "second"},
	})

	require.Len(t, records, 2)
	assert.Equal(t, "first", records[0].ConsumedAt)
	assert.Equal(t, "first", records[1].ConsumedAt)
}

func TestOrchestrator_ExtractURL(t *testing.T) {
	o := NewOrchestrator(&mockWebExtractor{}, &mockYouTubeExtractor{}, nil)

	assert.Equal(t, domain.KindYouTube, o.ExtractURL(context.Background(), "https://www.youtube.com/shorts/x").Kind)
	assert.Equal(t, domain.KindWeb, o.ExtractURL(context.Background(), "https://a.example/").Kind)
}

// End to end: the API listing is decoded, then each entry is extracted from a live page.
func TestOrchestrator_Run_EndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/v1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"entries":[{"title":"T","url":%q,"createdTime":"2024-01-01T00:00:00Z"}],"nextCursor":"","hasMore":false}`, server.URL+"/p")
	})
	mux.HandleFunc("/p", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><head><title>Hello</title></head><body></body></html>")
	})

	client := httpclient.NewClient(httpclient.BrowserClient, 0)
	api := source.NewAPIClient(source.APIConfig{BaseURL: server.URL + "/v1", Client: client})
	entries, err := api.Entries(context.Background())
	require.NoError(t, err)

	parser := content.NewGoqueryParser()
	o := NewOrchestrator(
		content.NewWebExtractor(client, parser, nil),
		content.NewYouTubeExtractor(client, parser, nil, "", nil),
		nil,
	)
	records := o.Run(context.Background(), entries)

	require.Len(t, records, 1)
	assert.Equal(t, server.URL+"/p", records[0].URL())
	assert.Equal(t, "Hello", records[0].Title())
	assert.Equal(t, "2024-01-01T00:00:00Z", records[0].ConsumedAt)
	assert.False(t, records[0].Fallback())
}
