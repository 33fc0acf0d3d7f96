package redis

import (
	"context"
	"encoding/json"
	"time"

	"venuebook/internal/entity"

	"github.com/go-redis/redis/v8"
)

// AvailabilityCache keeps a venue's availability ledger in redis so that
// availability reads do not hit postgres on every request. Entries are
// invalidated whenever the ledger is mutated; a missed invalidation heals
// itself when the TTL expires.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{
		client: client,
		ttl:    ttl,
	}
}

func ledgerKey(venueID string) string {
	return "venue:" + venueID + ":unavailable"
}

func (c *AvailabilityCache) SetLedger(ctx context.Context, venueID string, ledger entity.Ledger) error {
	data, err := json.Marshal(ledger)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, ledgerKey(venueID), data, c.ttl).Err()
}

func (c *AvailabilityCache) GetLedger(ctx context.Context, venueID string) (entity.Ledger, error) {
	data, err := c.client.Get(ctx, ledgerKey(venueID)).Result()
	if err != nil {
		return nil, err
	}

	var ledger entity.Ledger
	err = json.Unmarshal([]byte(data), &ledger)
	if err != nil {
		return nil, err
	}

	return ledger, nil
}

func (c *AvailabilityCache) InvalidateLedger(ctx context.Context, venueID string) error {
	return c.client.Del(ctx, ledgerKey(venueID)).Err()
}
