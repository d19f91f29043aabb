package deadletter

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/occload/internal/core/domain"
)

// MemorySink keeps dead-letter records in memory. Used when no backing store
// is configured, and by tests.
type MemorySink struct {
	mu      sync.Mutex
	records []*domain.DeadLetterRecord
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Record appends a record.
func (s *MemorySink) Record(ctx context.Context, rec *domain.DeadLetterRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.records = append(s.records, &cp)
	return nil
}

// QueryRange returns records with RecordedAt in [from, to], oldest first.
func (s *MemorySink) QueryRange(
	ctx context.Context,
	from, to time.Time,
) ([]*domain.DeadLetterRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.DeadLetterRecord
	for _, rec := range s.records {
		if rec.RecordedAt.Before(from) || rec.RecordedAt.After(to) {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

// Count returns the number of recorded dead letters.
func (s *MemorySink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
