// Package querycache is a Valkey-backed read-through cache in front of
// internal/indexstore's search and lookup queries (spec §4.I performance
// note: repeated identical queries against an unchanged index shouldn't
// re-hit Postgres).
package querycache

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// Config holds the Valkey connection settings a Cache needs; config.Load
// reads them from VALKEY_ADDR, VALKEY_PASSWORD and VALKEY_DB.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Cache wraps a valkey.Client with the get-or-compute pattern the RPC
// and CLI retrieve paths use.
type Cache struct {
	client valkey.Client
	ttl    time.Duration
}

// New dials Valkey and verifies connectivity, the same PING-on-connect
// pattern the teacher's store/valkey.NewClient uses.
func New(cfg Config, ttl time.Duration) (*Cache, error) {
	opts := valkey.ClientOption{InitAddress: []string{cfg.Addr}}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.SelectDB = cfg.DB
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("querycache: create client: %w", err)
	}

	ctx := context.Background()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("querycache: ping: %w", err)
	}

	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}, nil
}

// Close releases the underlying connection.
func (c *Cache) Close() { c.client.Close() }

// Get returns the raw cached payload for key, false if absent or
// expired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	resp := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	if resp.Error() != nil {
		return nil, false
	}
	data, err := resp.AsBytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores payload under key with the cache's default TTL.
func (c *Cache) Set(ctx context.Context, key string, payload []byte) error {
	cmd := c.client.B().Set().Key(key).Value(string(payload)).Ex(c.ttl).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("querycache: set %q: %w", key, err)
	}
	return nil
}

// Invalidate deletes a cached key, used when the indexer re-resolves a
// file the cached query result depended on.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Do(ctx, c.client.B().Del().Key(key).Build()).Error(); err != nil {
		return fmt.Errorf("querycache: invalidate %q: %w", key, err)
	}
	return nil
}

// FlushAll drops every cached query result, used by the indexer after a
// commit since a completed run can invalidate any previously-cached
// query without the cache tracking per-query dependencies.
func (c *Cache) FlushAll(ctx context.Context) error {
	if err := c.client.Do(ctx, c.client.B().Flushdb().Build()).Error(); err != nil {
		return fmt.Errorf("querycache: flushall: %w", err)
	}
	return nil
}

// GetOrCompute returns the cached payload for key if present; otherwise
// it calls compute, caches the result, and returns it. This is the
// read-through entry point the RPC handlers use.
func (c *Cache) GetOrCompute(ctx context.Context, key string, compute func() ([]byte, error)) ([]byte, error) {
	if cached, ok := c.Get(ctx, key); ok {
		return cached, nil
	}
	payload, err := compute()
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, payload); err != nil {
		return payload, nil
	}
	return payload, nil
}
