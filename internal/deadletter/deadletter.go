package deadletter

import (
	"context"
	"time"

	"github.com/vietddude/occload/internal/core/domain"
)

// Sink is the append-only store for work that exhausted its retry budget or
// failed fatally. Implementations must be safe for concurrent use. There is
// no mutation or deletion API; cleanup belongs to an external operator.
type Sink interface {
	// Record appends one dead-letter record.
	Record(ctx context.Context, rec *domain.DeadLetterRecord) error

	// QueryRange returns records with RecordedAt in [from, to], oldest first.
	QueryRange(ctx context.Context, from, to time.Time) ([]*domain.DeadLetterRecord, error)
}
