package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

var errGenerationChanged = errors.New("cache generation changed")

type RedisCacheRepository struct {
	client *redis.Client
}

func NewRedisCacheRepository(client *redis.Client) CacheRepositoryInterface {
	return &RedisCacheRepository{client: client}
}

// Get возвращает ErrCacheMiss вместо redis.Nil.
func (r *RedisCacheRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (r *RedisCacheRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisCacheRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisCacheRepository) Generation(ctx context.Context, key string) (int64, error) {
	gen, err := r.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *RedisCacheRepository) BumpGeneration(ctx context.Context, key string) error {
	return r.client.Incr(ctx, key).Err()
}

// SetIfGeneration: WATCH на счётчике, сравнение и SET в MULTI/EXEC.
// Инвалидация между WATCH и EXEC проваливает транзакцию.
func (r *RedisCacheRepository) SetIfGeneration(ctx context.Context, genKey string, generation int64, key string, value interface{}, expiration time.Duration) (bool, error) {
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errGenerationChanged
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, value, expiration)
			return nil
		})
		return err
	}, genKey)

	if errors.Is(err, errGenerationChanged) || errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
