package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter проверяет, можно ли пользователю задать ещё один вопрос
type Limiter interface {
	// Allow возвращает true и фиксирует запрос, если лимит не превышен
	Allow(ctx context.Context, userID int64) (bool, error)
	// Limited сообщает, ограничен ли пользователь сейчас, не фиксируя запрос
	Limited(ctx context.Context, userID int64) (bool, error)
}

// Evicter лимитер с локальным состоянием, которое нужно периодически чистить
type Evicter interface {
	Evict(idle time.Duration) int
}

// RedisClient подмножество redis.Cmdable, используемое лимитером
type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}
