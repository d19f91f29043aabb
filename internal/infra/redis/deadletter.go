package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/occload/internal/core/domain"
)

// DeadLetterRepo implements deadletter.Sink using Redis. Records are stored
// as JSON values keyed by record ID, indexed by a sorted set scored with the
// recorded-at timestamp so time-range queries are a single ZRANGEBYSCORE.
// Records are never expired or removed by this process.
type DeadLetterRepo struct {
	rdb       *redis.Client
	namespace string
}

// NewDeadLetterRepo creates a Redis-backed dead-letter repository.
func NewDeadLetterRepo(client *Client, namespace string) *DeadLetterRepo {
	if namespace == "" {
		namespace = "occload"
	}
	return &DeadLetterRepo{rdb: client.rdb, namespace: namespace}
}

func (r *DeadLetterRepo) indexKey() string {
	return fmt.Sprintf("dead_letters:%s", r.namespace)
}

func (r *DeadLetterRepo) recordKey(id string) string {
	return fmt.Sprintf("dead_letter:%s:%s", r.namespace, id)
}

// Record appends a dead-letter record.
func (r *DeadLetterRepo) Record(ctx context.Context, rec *domain.DeadLetterRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal dead letter: %w", err)
	}

	if err := r.rdb.Set(ctx, r.recordKey(rec.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set dead letter: %w", err)
	}

	if err := r.rdb.ZAdd(ctx, r.indexKey(), redis.Z{
		Score:  float64(rec.RecordedAt.UnixNano()),
		Member: rec.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to index dead letter: %w", err)
	}

	return nil
}

// QueryRange returns records recorded in [from, to], oldest first.
func (r *DeadLetterRepo) QueryRange(
	ctx context.Context,
	from, to time.Time,
) ([]*domain.DeadLetterRecord, error) {
	ids, err := r.rdb.ZRangeByScore(ctx, r.indexKey(), &redis.ZRangeBy{
		Min: fmt.Sprintf("%d", from.UnixNano()),
		Max: fmt.Sprintf("%d", to.UnixNano()),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("zrangebyscore failed: %w", err)
	}

	records := make([]*domain.DeadLetterRecord, 0, len(ids))
	for _, id := range ids {
		data, err := r.rdb.Get(ctx, r.recordKey(id)).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get dead letter: %w", err)
		}

		var rec domain.DeadLetterRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		records = append(records, &rec)
	}
	return records, nil
}

// Count returns the number of dead-letter records.
func (r *DeadLetterRepo) Count(ctx context.Context) (int, error) {
	count, err := r.rdb.ZCard(ctx, r.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("zcard failed: %w", err)
	}
	return int(count), nil
}
