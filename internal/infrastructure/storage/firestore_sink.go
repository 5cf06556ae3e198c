package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"EventScanner/internal/domain"
	"EventScanner/internal/ports"
)

// FirestoreSink stores event records as documents keyed by event ID.
type FirestoreSink struct {
	client     *firestore.Client
	collection string
}

var _ ports.EventSink = (*FirestoreSink)(nil)

// NewFirestoreSink connects to Firestore; credentialsFile may be empty
// to use application default credentials.
func NewFirestoreSink(ctx context.Context, projectID, credentialsFile, collection string) (*FirestoreSink, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}

	if collection == "" {
		collection = "events"
	}
	return &FirestoreSink{client: client, collection: collection}, nil
}

// Close releases the underlying client.
func (s *FirestoreSink) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Upsert merge-sets the document so fields written by other producers
// survive.
func (s *FirestoreSink) Upsert(ctx context.Context, record domain.EventRecord) error {
	if s.client == nil {
		return nil
	}

	doc := s.client.Collection(s.collection).Doc(record.EventID)
	if _, err := doc.Set(ctx, toDocument(record), firestore.MergeAll); err != nil {
		return fmt.Errorf("set event %s: %w", record.EventID, err)
	}
	return nil
}

// toDocument builds map data because MergeAll requires it; optional
// fields are omitted entirely rather than written as empty strings.
func toDocument(record domain.EventRecord) map[string]any {
	doc := map[string]any{
		"eventId":        record.EventID,
		"title":          record.Title,
		"description":    record.Description,
		"startDate":      record.StartDate,
		"endDate":        record.EndDate,
		"startTimestamp": record.StartTimestamp,
		"endTimestamp":   record.EndTimestamp,
		"lastUpdated":    record.LastUpdated,
	}
	if record.Version != "" {
		doc["version"] = record.Version
	}
	if record.Sentiment != "" {
		doc["sentiment"] = record.Sentiment
	}
	if record.ImageURL != "" {
		doc["imageUrl"] = record.ImageURL
	}
	return doc
}
