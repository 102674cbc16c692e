package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/querysmith/backend/internal/metrics"
	"github.com/querysmith/backend/pkg/logger"
)

// Client caches generation and conversion responses keyed by a hash of
// the request. Refinement results are never cached: the same query with
// the same bounds is cheap relative to the cache-coherence questions it
// would raise.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(host string, port int, password string, db, ttlSec int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis cache initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{
		client: client,
		ttl:    time.Duration(ttlSec) * time.Second,
	}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Get looks up a cached response under kind:hash and unmarshals it into
// dest. A miss is (false, nil).
func (c *Client) Get(ctx context.Context, kind, hash string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key(kind, hash)).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.WithLabelValues(kind).Inc()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get cached response: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached response: %w", err)
	}

	metrics.CacheHits.WithLabelValues(kind).Inc()
	logger.Debug("Response cache hit", zap.String("kind", kind), zap.String("hash", hash))
	return true, nil
}

func (c *Client) Set(ctx context.Context, kind, hash string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if err := c.client.Set(ctx, key(kind, hash), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set response cache: %w", err)
	}

	logger.Debug("Response cached", zap.String("kind", kind), zap.String("hash", hash))
	return nil
}

func key(kind, hash string) string {
	return fmt.Sprintf("%s:%s", kind, hash)
}
