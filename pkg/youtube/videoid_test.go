package youtube

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch", "https://www.youtube.com/watch?v=abc12345678", "abc12345678"},
		{"watch with extra params", "https://www.youtube.com/watch?v=abc12345678&t=42s", "abc12345678"},
		{"watch v not first", "https://www.youtube.com/watch?feature=share&v=abc12345678", "abc12345678"},
		{"short", "https://youtu.be/abc12345678?si=xyz", "abc12345678"},
		{"embed", "https://www.youtube.com/embed/abc12345678", "abc12345678"},
		{"shorts", "https://youtube.com/shorts/abc12345678/", "abc12345678"},
		{"path bounded", "https://www.youtube.com/embed/short", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveVideoID(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveVideoID_Idempotent(t *testing.T) {
	for _, u := range []string{
		"https://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
		"https://www.youtube.com/watch?list=x&v=dQw4w9WgXcQ",
	} {
		id, err := ResolveVideoID(u)
		require.NoError(t, err)

		again, err := ResolveVideoID(WatchURL(id))
		require.NoError(t, err)
		assert.Equal(t, id, again)
	}
}

func TestResolveVideoID_Invalid(t *testing.T) {
	_, err := ResolveVideoID("https://example.com")
	assert.True(t, errors.Is(err, ErrInvalidURL))

	_, err = ResolveVideoID("https://www.youtube.com/channel/UC123")
	assert.True(t, errors.Is(err, ErrInvalidURL))
}

func TestVideoIDFrom_AcceptsBareID(t *testing.T) {
	got, err := videoIDFrom("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", got)
}
