package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"content-sync/pkg/domain"
)

func TestRecordUpdate_YouTube(t *testing.T) {
	rec := domain.NewYouTubeRecord(domain.ExtractedYouTubeContent{
		Title:    "Video",
		URL:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		VideoID:  "dQw4w9WgXcQ",
		MetaData: domain.YouTubeMetaData{Duration: "PT1M"},
	}, nil)
	rec.ConsumedAt = "2024-01-01T00:00:00Z"

	update := recordUpdate(rec, "2024-02-01T00:00:00Z")

	set := update["$set"].(bson.M)
	assert.Equal(t, "youtube", set["kind"])
	assert.Equal(t, "2024-01-01T00:00:00Z", set["consumed_at"])
	assert.Equal(t, "PT1M", set["youtube"].(bson.M)["duration"])
	assert.NotContains(t, set, "transcript")
	assert.NotContains(t, set, "title")

	onInsert := update["$setOnInsert"].(bson.M)
	assert.Equal(t, "Video", onInsert["title"])
}

func TestRecordUpdate_Web(t *testing.T) {
	published := "2024-01-05"
	rec := domain.NewWebRecord(domain.ExtractedWebContent{
		URL:           "https://example.com/a",
		FullContent:   "body",
		PublishedDate: &published,
	}, nil)

	set := recordUpdate(rec, "now")["$set"].(bson.M)
	assert.Equal(t, "body", set["web"].(bson.M)["full_content"])
	assert.Equal(t, "2024-01-05", set["published_date"])
	assert.NotContains(t, set, "consumed_at")
}

func TestNewEntryDocument(t *testing.T) {
	doc := newEntryDocument(domain.Entry{URL: "u", Title: "t"}, "ts")
	assert.Equal(t, bson.M{"url": "u", "title": "t", "created_at": "ts", "last_updated": "ts"}, doc)
}
