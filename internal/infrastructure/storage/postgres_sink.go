package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"EventScanner/internal/domain"
	"EventScanner/internal/ports"
)

// PostgresSink persists event records into Postgres with merge-by-key
// semantics.
type PostgresSink struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.EventSink = (*PostgresSink)(nil)

// NewPostgresSink connects to Postgres at the given DSN and verifies
// the connection. The caller should Close when done.
func NewPostgresSink(dsn string) (*PostgresSink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return newPostgresSink(db), nil
}

func newPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Close closes the underlying database connection.
func (s *PostgresSink) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Upsert merges the record by event_id; rerunning the scraper updates
// rows in place instead of duplicating them.
func (s *PostgresSink) Upsert(ctx context.Context, record domain.EventRecord) error {
	if s.db == nil {
		return nil
	}

	query, args, err := s.builder.
		Insert("events").
		Columns("event_id", "title", "description",
			"start_date", "end_date", "start_timestamp", "end_timestamp",
			"version", "sentiment", "image_url", "last_updated").
		Values(record.EventID, record.Title, record.Description,
			record.StartDate, record.EndDate, record.StartTimestamp, record.EndTimestamp,
			nullable(record.Version), nullable(record.Sentiment), nullable(record.ImageURL), record.LastUpdated).
		Suffix(`ON CONFLICT (event_id) DO UPDATE
            SET title = EXCLUDED.title,
                description = EXCLUDED.description,
                start_date = EXCLUDED.start_date,
                end_date = EXCLUDED.end_date,
                start_timestamp = EXCLUDED.start_timestamp,
                end_timestamp = EXCLUDED.end_timestamp,
                version = COALESCE(EXCLUDED.version, events.version),
                sentiment = COALESCE(EXCLUDED.sentiment, events.sentiment),
                image_url = COALESCE(EXCLUDED.image_url, events.image_url),
                last_updated = EXCLUDED.last_updated`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert event %s: %w", record.EventID, err)
	}
	return nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
