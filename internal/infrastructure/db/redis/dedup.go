package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aquiferlab/aquifer-console/internal/api/metrics"
)

const dedupTTL = time.Hour

// DedupChecker provides run-event idempotency checks backed by Redis. The
// simulation worker retries deliveries, so each (simulation, status,
// timestamp) triple is marked once processed.
// Key format: runevent:<simulation_id>:<status>:<unix_timestamp>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this exact event has already been processed.
func (d *DedupChecker) IsDuplicate(ctx context.Context, simulationID, status string, ts time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(simulationID, status, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	if n > 0 {
		metrics.RunEventsDedupTotal.WithLabelValues("hit").Inc()
		return true, nil
	}
	metrics.RunEventsDedupTotal.WithLabelValues("miss").Inc()
	return false, nil
}

// Mark records that this event has been processed (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, simulationID, status string, ts time.Time) error {
	return d.client.Set(ctx, d.key(simulationID, status, ts), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(simulationID, status string, ts time.Time) string {
	return fmt.Sprintf("runevent:%s:%s:%d", simulationID, status, ts.Unix())
}
