package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "medreport:session:"

// redisAPI is the subset of redis.Cmdable the slot uses.
type redisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisSlot stores session data in Redis with a sliding TTL refreshed on every save.
type RedisSlot struct {
	client redisAPI
	ttl    time.Duration
}

// NewRedisSlot wraps an existing client. A zero ttl stores keys without expiry.
func NewRedisSlot(client redisAPI, ttl time.Duration) *RedisSlot {
	return &RedisSlot{client: client, ttl: ttl}
}

// DialRedis parses url, connects and pings the server.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (s *RedisSlot) key(sessionID string) string {
	return redisKeyPrefix + sessionID + ":" + StorageKey
}

func (s *RedisSlot) Load(ctx context.Context, sessionID string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisSlot) Save(ctx context.Context, sessionID string, data []byte) error {
	return s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err()
}

func (s *RedisSlot) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}
