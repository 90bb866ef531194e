package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_MarshalJSON_Web(t *testing.T) {
	rec := NewWebRecord(ExtractedWebContent{
		Title:       "Hello",
		URL:         "https://a.example/p",
		FullContent: "body",
	}, nil)
	rec.ConsumedAt = "2024-01-01T00:00:00Z"

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Hello", got["title"])
	assert.Equal(t, "https://a.example/p", got["url"])
	assert.Equal(t, "2024-01-01T00:00:00Z", got["consumedAt"])
	assert.Nil(t, got["publishedDate"])
	assert.Contains(t, got, "metaData")
}

func TestRecord_MarshalJSON_YouTubeOmitsEmptyTranscript(t *testing.T) {
	rec := NewYouTubeRecord(ExtractedYouTubeContent{
		Title:   "Video",
		URL:     "https://www.youtube.com/watch?v=abc12345678",
		VideoID: "abc12345678",
	}, nil)

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "abc12345678", got["videoId"])
	assert.NotContains(t, got, "transcript")
	assert.NotContains(t, got, "consumedAt")
}

func TestRecord_Accessors(t *testing.T) {
	rec := NewYouTubeRecord(ExtractedYouTubeContent{Title: "T", URL: "u"}, errors.New("boom"))
	assert.Equal(t, "u", rec.URL())
	assert.Equal(t, "T", rec.Title())
	assert.True(t, rec.Fallback())

	_, err := json.Marshal(Record{Kind: "other"})
	assert.Error(t, err)
}

func TestEntryURLs_SkipsEmpty(t *testing.T) {
	got := EntryURLs([]Entry{{URL: "a"}, {URL: ""}, {URL: "b"}})
	assert.Equal(t, []string{"a", "b"}, got)
}
