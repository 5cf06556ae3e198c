package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"EventScanner/internal/domain"
	"EventScanner/internal/ports"
)

// FileSink accumulates the run's records and rewrites a JSON file on
// every upsert, keyed by event ID so repeated runs stay idempotent.
type FileSink struct {
	path    string
	records map[string]domain.EventRecord
}

var _ ports.EventSink = (*FileSink)(nil)

// NewFileSink writes events to the given path, seeding from an
// existing file so earlier runs' records are merged, not lost.
func NewFileSink(path string) *FileSink {
	sink := &FileSink{path: path, records: map[string]domain.EventRecord{}}

	if raw, err := os.ReadFile(path); err == nil {
		var existing []domain.EventRecord
		if err := json.Unmarshal(raw, &existing); err == nil {
			for _, record := range existing {
				sink.records[record.EventID] = record
			}
		}
	}

	return sink
}

// Upsert replaces the record for its event ID and flushes the file.
func (s *FileSink) Upsert(_ context.Context, record domain.EventRecord) error {
	s.records[record.EventID] = record
	return s.flush()
}

func (s *FileSink) flush() error {
	ordered := make([]domain.EventRecord, 0, len(s.records))
	for _, record := range s.records {
		ordered = append(ordered, record)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].StartTimestamp != ordered[j].StartTimestamp {
			return ordered[i].StartTimestamp < ordered[j].StartTimestamp
		}
		return ordered[i].EventID < ordered[j].EventID
	})

	payload, err := json.MarshalIndent(ordered, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}

	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
