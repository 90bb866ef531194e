package syncservice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-sync/pkg/db"
	"content-sync/pkg/domain"
)

type staticSource struct {
	entries []domain.Entry
	err     error
}

func (s *staticSource) Entries(ctx context.Context) ([]domain.Entry, error) {
	return s.entries, s.err
}

type stubExtractor struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (s *stubExtractor) ExtractURL(ctx context.Context, url string) domain.Record {
	s.mu.Lock()
	s.calls = append(s.calls, url)
	s.mu.Unlock()

	var err error
	if s.fail[url] {
		err = errors.New("fetch failed")
	}
	return domain.NewWebRecord(domain.ExtractedWebContent{Title: "page", URL: url, FullContent: "body"}, err)
}

type memoryVisited struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (m *memoryVisited) IsVisited(ctx context.Context, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[url], nil
}

func (m *memoryVisited) MarkVisited(ctx context.Context, url string, expiry time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[url] = true
	return nil
}

func newStore(t *testing.T) db.Store {
	t.Helper()
	client := db.NewSQLiteClient(":memory:")
	require.NoError(t, client.Connect(context.Background()))
	store := db.NewSQLStore(client, db.DialectSQLite, nil)
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { store.Close() })
	return store
}

func TestService_Run_ChangeDetectionAcrossRuns(t *testing.T) {
	store := newStore(t)
	src := &staticSource{entries: []domain.Entry{
		{Title: "A", URL: "https://example.com/a"},
		{Title: "B", URL: "https://example.com/b"},
		{Title: "C", URL: "https://example.com/c"},
		{Title: "Mail", URL: "mailto:someone@example.com"},
	}}
	extractor := &stubExtractor{fail: map[string]bool{"https://example.com/b": true}}

	svc := NewService(Config{Source: src, Store: store, Extractor: extractor, BatchSize: 2})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 4, result.EntriesAdded)
	assert.Equal(t, 0, result.EntriesUpdated)
	assert.Equal(t, 2, result.EntriesScraped)
	assert.Equal(t, 1, result.ScrapeErrors)
	assert.Len(t, extractor.calls, 3, "non-http URLs are not scraped")

	src.entries[2].Title = "C renamed"
	extractor.calls = nil

	result, err = svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.EntriesAdded)
	assert.Equal(t, 1, result.EntriesUpdated)
	assert.Equal(t, 1, result.EntriesScraped)
	assert.Equal(t, []string{"https://example.com/c"}, extractor.calls)

	history, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, result.RunID, history[0].RunID)
	assert.Equal(t, 1, history[0].EntriesUpdated)
	assert.Equal(t, 1, history[1].ScrapeErrors)
}

func TestService_Run_SourceError(t *testing.T) {
	store := newStore(t)
	svc := NewService(Config{
		Source:    &staticSource{err: errors.New("api down")},
		Store:     store,
		Extractor: &stubExtractor{},
	})

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api down")

	history, err := store.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestService_Run_MaxEntries(t *testing.T) {
	extractor := &stubExtractor{}
	svc := NewService(Config{
		Source: &staticSource{entries: []domain.Entry{
			{URL: "https://example.com/1"},
			{URL: "https://example.com/2"},
			{URL: "https://example.com/3"},
		}},
		Store:      newStore(t),
		Extractor:  extractor,
		BatchSize:  3,
		MaxEntries: 2,
	})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.EntriesAdded)
	assert.Equal(t, 2, result.EntriesScraped)
	assert.Len(t, extractor.calls, 2)
}

func TestService_Run_SkipsVisited(t *testing.T) {
	visited := &memoryVisited{seen: map[string]bool{"https://example.com/old": true}}
	extractor := &stubExtractor{}
	svc := NewService(Config{
		Source: &staticSource{entries: []domain.Entry{
			{URL: "https://example.com/old"},
			{URL: "https://example.com/new"},
		}},
		Store:      newStore(t),
		Extractor:  extractor,
		Visited:    visited,
		VisitedTTL: time.Hour,
	})

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/new"}, extractor.calls)
	assert.Equal(t, 1, result.EntriesScraped)
	assert.True(t, visited.seen["https://example.com/new"])
}

func TestService_Run_NoOverlap(t *testing.T) {
	svc := NewService(Config{Source: &staticSource{}, Store: newStore(t), Extractor: &stubExtractor{}})

	svc.running.Lock()
	_, err := svc.Run(context.Background())
	svc.running.Unlock()

	assert.ErrorIs(t, err, ErrRunInProgress)
}
