package storage

import (
	"context"
	"errors"

	"EventScanner/internal/domain"
	"EventScanner/internal/ports"
)

// MultiSink fans one upsert out to every configured sink. A failing
// sink does not stop the others; errors are joined.
type MultiSink struct {
	sinks []ports.EventSink
}

var _ ports.EventSink = (*MultiSink)(nil)

// NewMultiSink composes the given sinks; nil entries are skipped.
func NewMultiSink(sinks ...ports.EventSink) *MultiSink {
	kept := make([]ports.EventSink, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			kept = append(kept, sink)
		}
	}
	return &MultiSink{sinks: kept}
}

// Empty reports whether any sink is configured.
func (m *MultiSink) Empty() bool {
	return len(m.sinks) == 0
}

// Upsert writes the record to every sink.
func (m *MultiSink) Upsert(ctx context.Context, record domain.EventRecord) error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.Upsert(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
