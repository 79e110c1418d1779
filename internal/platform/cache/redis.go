package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSlotCache implements SlotCache backed by Redis. Booked slot lists are
// stored as JSON arrays under a per doctor-and-date key with a short TTL, so
// stale entries age out even if an invalidation is missed.
type RedisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSlotCache connects to Redis using the given URL
// (redis://[:password@]host:port/db) and verifies the connection.
func NewRedisSlotCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisSlotCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisSlotCache{client: client, ttl: ttl}, nil
}

func slotKey(doctorID, date string) string {
	return "slots:" + doctorID + ":" + date
}

func (c *RedisSlotCache) GetBookedSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	raw, err := c.client.Get(ctx, slotKey(doctorID, date)).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get booked slots from cache: %w", err)
	}

	var slots []string
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, fmt.Errorf("decode cached slots: %w", err)
	}
	return slots, nil
}

func (c *RedisSlotCache) SetBookedSlots(ctx context.Context, doctorID, date string, slots []string) error {
	if slots == nil {
		slots = []string{}
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("encode slots for cache: %w", err)
	}
	if err := c.client.Set(ctx, slotKey(doctorID, date), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set booked slots in cache: %w", err)
	}
	return nil
}

func (c *RedisSlotCache) Invalidate(ctx context.Context, doctorID, date string) error {
	if err := c.client.Del(ctx, slotKey(doctorID, date)).Err(); err != nil {
		return fmt.Errorf("invalidate cached slots: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection, for health checks.
func (c *RedisSlotCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying Redis connection.
func (c *RedisSlotCache) Close() error {
	return c.client.Close()
}
