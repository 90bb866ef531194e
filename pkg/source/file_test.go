package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-sync/pkg/config"
	"content-sync/pkg/domain"
)

func writeURLFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSource_Entries(t *testing.T) {
	path := writeURLFile(t, `https://example.com/article1
https://example.com/article2,
https://www.youtube.com/watch?v=dQw4w9WgXcQ	Never Gonna Give You Up

# This is a comment
https://example.com/article4
`)

	entries, err := NewFileSource(path).Entries(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.Entry{
		{URL: "https://example.com/article1"},
		{URL: "https://example.com/article2"},
		{URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", Title: "Never Gonna Give You Up"},
		{URL: "https://example.com/article4"},
	}, entries)
}

func TestFileSource_Errors(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.txt")).Entries(context.Background())
	assert.Error(t, err)

	_, err = NewFileSource(writeURLFile(t, "# only comments\n\n")).Entries(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no URLs found")
}

func TestNew(t *testing.T) {
	tests := []struct {
		kind string
		want any
	}{
		{config.SourceAPI, &APIClient{}},
		{config.SourceFeed, &FeedSource{}},
		{config.SourceSitemap, &SitemapSource{}},
		{config.SourceFile, &FileSource{}},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			src, err := New(&config.Config{SourceKind: tt.kind, APIURL: "https://api.example.com", SourceLocation: "x"}, nil, nil)
			require.NoError(t, err)
			assert.IsType(t, tt.want, src)
		})
	}

	_, err := New(&config.Config{SourceKind: "carrier-pigeon"}, nil, nil)
	assert.Error(t, err)
}

func TestAll_UsesPagination(t *testing.T) {
	paged := &pagedStub{all: []domain.Entry{{URL: "a"}, {URL: "b"}}, first: []domain.Entry{{URL: "a"}}}
	entries, err := All(context.Background(), paged)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = All(context.Background(), NewFileSource(writeURLFile(t, "https://example.com\n")))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

type pagedStub struct {
	first, all []domain.Entry
}

func (p *pagedStub) Entries(context.Context) ([]domain.Entry, error)    { return p.first, nil }
func (p *pagedStub) AllEntries(context.Context) ([]domain.Entry, error) { return p.all, nil }
