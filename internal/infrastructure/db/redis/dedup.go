package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// DedupChecker provides transaction ingestion idempotency backed by Redis.
// Key format: txn:dedup:<account_number>:<reference>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this reference has already been ingested for
// the account.
func (d *DedupChecker) IsDuplicate(ctx context.Context, accountNumber, reference string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(accountNumber, reference)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this reference has been ingested (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, accountNumber, reference string) error {
	return d.client.Set(ctx, d.key(accountNumber, reference), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(accountNumber, reference string) string {
	return fmt.Sprintf("txn:dedup:%s:%s", accountNumber, reference)
}
