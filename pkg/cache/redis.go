package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roadassist/roadassist/config"
)

// redisStore is the Redis-backed driver.
type redisStore struct {
	rdb *redis.Client
	ctx context.Context
}

func newRedisStore() (*redisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}

	return &redisStore{rdb: rdb, ctx: ctx}, nil
}

func (s *redisStore) Get(key string, dest interface{}) bool {
	val, err := s.rdb.Get(s.ctx, key).Result()
	if err != nil {
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false
	}

	return true
}

func (s *redisStore) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.rdb.Set(s.ctx, key, data, ttl).Err()
}

func (s *redisStore) Del(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(s.ctx, keys...).Err()
}

// DelPattern walks the keyspace with SCAN (never KEYS — it blocks the server)
// and deletes matches in batches.
func (s *redisStore) DelPattern(pattern string) error {
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(s.ctx, cursor, pattern, 200).Result()
		if err != nil {
			return fmt.Errorf("cache: scan %q: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(s.ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
