package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-sync/pkg/domain"
)

type stubExtractor struct {
	err error
}

func (s stubExtractor) ExtractURL(ctx context.Context, url string) domain.Record {
	return domain.NewYouTubeRecord(domain.ExtractedYouTubeContent{Title: "scraped", URL: url}, s.err)
}

type mockSaver struct {
	saved []domain.Record
	err   error
}

func (m *mockSaver) SaveRecord(ctx context.Context, rec domain.Record, now time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, rec)
	return nil
}

type mockVisited struct {
	marked map[string]time.Duration
}

func (m *mockVisited) IsVisited(ctx context.Context, url string) (bool, error) {
	_, ok := m.marked[url]
	return ok, nil
}

func (m *mockVisited) MarkVisited(ctx context.Context, url string, expiry time.Duration) error {
	m.marked[url] = expiry
	return nil
}

func TestWorker_ProcessEntry_SavesEnrichedRecord(t *testing.T) {
	saver := &mockSaver{}
	visited := &mockVisited{marked: map[string]time.Duration{}}
	w := NewWorker(stubExtractor{}, saver, visited, time.Hour, nil)

	entry := domain.Entry{Title: "API title", URL: "https://www.youtube.com/watch?v=abc12345678", CreatedTime: "2024-01-01T00:00:00Z"}
	require.NoError(t, w.ProcessEntry(context.Background(), entry))

	require.Len(t, saver.saved, 1)
	assert.Equal(t, "API title", saver.saved[0].Title())
	assert.Equal(t, "2024-01-01T00:00:00Z", saver.saved[0].ConsumedAt)
	assert.Equal(t, time.Hour, visited.marked[entry.URL])
}

func TestWorker_ProcessEntry_FallbackNotSaved(t *testing.T) {
	saver := &mockSaver{}
	w := NewWorker(stubExtractor{err: errors.New("fetch failed")}, saver, nil, 0, nil)

	err := w.ProcessEntry(context.Background(), domain.Entry{URL: "https://a.example/"})
	assert.ErrorContains(t, err, "fetch failed")
	assert.Empty(t, saver.saved)
}

func TestWorker_ProcessEntry_SaveError(t *testing.T) {
	w := NewWorker(stubExtractor{}, &mockSaver{err: errors.New("disk full")}, nil, 0, nil)

	err := w.ProcessEntry(context.Background(), domain.Entry{URL: "https://a.example/"})
	assert.ErrorContains(t, err, "failed to save record")
}
