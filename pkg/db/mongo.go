package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"content-sync/pkg/domain"
	"content-sync/pkg/logger"
)

const (
	contentCollection = "content"
	historyCollection = "sync_history"
)

// MongoStore keeps one document per URL in content and appends runs to sync_history
type MongoStore struct {
	mongoClient *mongo.Client
	content     *mongo.Collection
	history     *mongo.Collection
	logger      logger.Logger
}

// NewMongoStore connects to MongoDB and verifies the connection
func NewMongoStore(ctx context.Context, connectionString, databaseName string, log logger.Logger) (*MongoStore, error) {
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	database := mongoClient.Database(databaseName)
	return &MongoStore{
		mongoClient: mongoClient,
		content:     database.Collection(contentCollection),
		history:     database.Collection(historyCollection),
		logger:      logger.OrNop(log),
	}, nil
}

// Init ensures the unique url index
func (s *MongoStore) Init(ctx context.Context) error {
	_, err := s.content.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "url", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create url index: %w", err)
	}
	return nil
}

// SyncEntries applies the same added/updated rules as SQLStore, one document at a time
func (s *MongoStore) SyncEntries(ctx context.Context, entries []domain.Entry, now time.Time) (EntryChanges, error) {
	var changes EntryChanges
	ts := formatTime(now)

	for _, entry := range entries {
		if entry.URL == "" {
			continue
		}

		var existing struct {
			Title string `bson:"title"`
		}
		err := s.content.FindOne(ctx, bson.M{"url": entry.URL},
			options.FindOne().SetProjection(bson.M{"title": 1, "_id": 0})).Decode(&existing)
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			if _, err := s.content.InsertOne(ctx, newEntryDocument(entry, ts)); err != nil {
				return changes, fmt.Errorf("failed to insert content %s: %w", entry.URL, err)
			}
			changes.Added = append(changes.Added, entry.URL)
		case err != nil:
			return changes, fmt.Errorf("failed to read content %s: %w", entry.URL, err)
		case existing.Title != entry.Title:
			set := bson.M{"title": entry.Title, "last_updated": ts}
			if entry.CreatedTime != "" {
				set["consumed_at"] = entry.CreatedTime
			}
			if _, err := s.content.UpdateOne(ctx, bson.M{"url": entry.URL}, bson.M{"$set": set}); err != nil {
				return changes, fmt.Errorf("failed to update content %s: %w", entry.URL, err)
			}
			changes.Updated = append(changes.Updated, entry.URL)
		}
	}

	s.logger.Info("Base sync completed",
		logger.Int("added", len(changes.Added)),
		logger.Int("updated", len(changes.Updated)),
	)
	return changes, nil
}

// SaveRecord upserts the extraction into the URL's document
func (s *MongoStore) SaveRecord(ctx context.Context, rec domain.Record, now time.Time) error {
	if rec.Fallback() {
		return fmt.Errorf("refusing to save fallback record for %s", rec.URL())
	}

	filter := bson.M{"url": rec.URL()}
	opts := options.Update().SetUpsert(true)
	if _, err := s.content.UpdateOne(ctx, filter, recordUpdate(rec, formatTime(now)), opts); err != nil {
		return fmt.Errorf("failed to upsert record %s: %w", rec.URL(), err)
	}
	return nil
}

// RecordSync appends a sync_history document
func (s *MongoStore) RecordSync(ctx context.Context, result domain.SyncResult) error {
	if _, err := s.history.InsertOne(ctx, result); err != nil {
		return fmt.Errorf("failed to record sync history: %w", err)
	}
	return nil
}

// History returns up to limit runs, newest first
func (s *MongoStore) History(ctx context.Context, limit int) ([]domain.SyncResult, error) {
	if limit <= 0 {
		limit = 10
	}

	opts := options.Find().SetSort(bson.D{{Key: "sync_time", Value: -1}}).SetLimit(int64(limit))
	cursor, err := s.history.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync history: %w", err)
	}
	defer cursor.Close(ctx)

	var results []domain.SyncResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return results, nil
}

// Close disconnects the client
func (s *MongoStore) Close() error {
	if s.mongoClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.mongoClient.Disconnect(ctx)
}

func newEntryDocument(entry domain.Entry, ts string) bson.M {
	doc := bson.M{
		"url":          entry.URL,
		"title":        entry.Title,
		"created_at":   ts,
		"last_updated": ts,
	}
	if entry.CreatedTime != "" {
		doc["consumed_at"] = entry.CreatedTime
	}
	return doc
}

// recordUpdate builds the upsert for a record. Title and created_at are only
// written on insert; the transcript is replaced only when present.
func recordUpdate(rec domain.Record, ts string) bson.M {
	set := bson.M{
		"kind":      string(rec.Kind),
		"scrape_at": ts,
	}
	if rec.ConsumedAt != "" {
		set["consumed_at"] = rec.ConsumedAt
	}

	switch rec.Kind {
	case domain.KindWeb:
		set["metadata"] = rec.Web.MetaData
		set["web"] = bson.M{"full_content": rec.Web.FullContent}
		if rec.Web.PublishedDate != nil {
			set["published_date"] = *rec.Web.PublishedDate
		}
	case domain.KindYouTube:
		c := rec.YouTube
		set["metadata"] = c.MetaData
		set["youtube"] = bson.M{
			"video_id":     c.VideoID,
			"channel_name": c.ChannelName,
			"description":  c.Description,
			"duration":     c.MetaData.Duration,
		}
		if len(c.Transcript) > 0 {
			set["transcript"] = c.Transcript
		}
	}

	return bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"title":        rec.Title(),
			"created_at":   ts,
			"last_updated": ts,
		},
	}
}
