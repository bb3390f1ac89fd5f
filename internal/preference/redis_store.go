package preference

import (
	"context"
	"errors"
	"time"

	"crypto-dashboard/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of the Redis client the store needs.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore keeps preferences in Redis under "theme:<key>", without expiry.
type RedisStore struct {
	client RedisClient
}

func NewRedisStore(client RedisClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) LoadTheme(ctx context.Context, key string) (domain.Theme, error) {
	val, err := s.client.Get(ctx, themeKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.DefaultTheme, nil
	}
	if err != nil {
		return domain.DefaultTheme, err
	}
	return domain.ParseTheme(val), nil
}

func (s *RedisStore) SaveTheme(ctx context.Context, key string, theme domain.Theme) error {
	return s.client.Set(ctx, themeKey(key), string(theme), 0).Err()
}

func themeKey(key string) string {
	return "theme:" + key
}
