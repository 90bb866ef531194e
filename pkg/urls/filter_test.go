package urls

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockVisitedStore struct {
	visited map[string]bool
	err     error
}

func (m *mockVisitedStore) IsVisited(ctx context.Context, url string) (bool, error) {
	return m.visited[url], m.err
}

func (m *mockVisitedStore) MarkVisited(ctx context.Context, url string, expiry time.Duration) error {
	m.visited[url] = true
	return nil
}

func TestApply_ChainsFilters(t *testing.T) {
	store := &mockVisitedStore{visited: map[string]bool{"https://seen.example/": true}}

	got, err := Apply(context.Background(),
		[]string{"https://seen.example/", "mailto:x@y.z", "https://new.example/a", "ftp://old.example/b"},
		NewSchemeFilter(),
		NewVisitedFilter(store),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://new.example/a"}, got)
}

func TestApply_PropagatesFilterError(t *testing.T) {
	store := &mockVisitedStore{err: errors.New("redis down")}

	_, err := Apply(context.Background(), []string{"https://a.example/"}, NewVisitedFilter(store))
	assert.ErrorContains(t, err, "redis down")
}

func TestApply_NoFilters(t *testing.T) {
	in := []string{"a", "b"}
	got, err := Apply(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}
