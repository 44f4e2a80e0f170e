package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Redis распределённый лимитер: ключ на пользователя с TTL = interval
// Подходит для нескольких реплик бота за одним webhook
type Redis struct {
	client   RedisClient
	interval time.Duration
	prefix   string
}

// NewRedis создаёт лимитер поверх redis
func NewRedis(client RedisClient, interval time.Duration, prefix string) (*Redis, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if prefix == "" {
		prefix = "knoll:ratelimit:"
	}

	return &Redis{
		client:   client,
		interval: interval,
		prefix:   prefix,
	}, nil
}

// Allow реализует Limiter: SET key NX PX interval
func (r *Redis) Allow(ctx context.Context, userID int64) (bool, error) {
	key := r.key(userID)

	ok, err := r.client.SetNX(ctx, key, time.Now().UnixMilli(), r.interval).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBackend, err)
	}

	return ok, nil
}

func (r *Redis) Limited(ctx context.Context, userID int64) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return n > 0, nil
}

func (r *Redis) key(userID int64) string {
	return fmt.Sprintf("%s%d", r.prefix, userID)
}
