package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"messenger-fixtures/internal/faker"

	goredis "github.com/redis/go-redis/v9"
)

// Cache key pattern:
// - fixtures:{name} - JSON encoded batch, FIXTURE_CACHE_TTL (default 1h)

const DefaultFixtureTTL = time.Hour

// FixtureCache stores generated batches by name so other processes can load them.
type FixtureCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewFixtureCache(client *goredis.Client, ttl time.Duration) *FixtureCache {
	if ttl <= 0 {
		ttl = DefaultFixtureTTL
	}
	return &FixtureCache{
		client: client,
		ttl:    ttl,
	}
}

func fixtureKey(name string) string {
	return fmt.Sprintf("fixtures:%s", name)
}

// GetBatch returns nil, nil on a cache miss.
func (c *FixtureCache) GetBatch(ctx context.Context, name string) (*faker.Batch, error) {
	data, err := c.client.Get(ctx, fixtureKey(name)).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	batch := faker.NewBatch()
	if err := json.Unmarshal(data, batch); err != nil {
		return nil, fmt.Errorf("decode cached batch %s: %w", name, err)
	}
	return batch, nil
}

func (c *FixtureCache) SetBatch(ctx context.Context, name string, batch *faker.Batch) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, fixtureKey(name), data, c.ttl).Err()
}

func (c *FixtureCache) Invalidate(ctx context.Context, name string) error {
	return c.client.Del(ctx, fixtureKey(name)).Err()
}
