package repositories

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss - ключа нет в кеше.
var ErrCacheMiss = errors.New("cache miss")

type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key ...string) error

	// Generation - счётчик инвалидаций; отсутствующий ключ равен 0.
	Generation(ctx context.Context, key string) (int64, error)
	BumpGeneration(ctx context.Context, key string) error
	// SetIfGeneration пишет значение, только если счётчик всё ещё равен generation.
	SetIfGeneration(ctx context.Context, genKey string, generation int64, key string, value interface{}, expiration time.Duration) (bool, error)
}
