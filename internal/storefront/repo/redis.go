package repo

import (
	"context"
	"errors"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps documents as plain string values with no expiry.
type RedisStore struct {
	rdb redis.Cmdable
}

func NewRedisStore(rdb redis.Cmdable) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (r *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load key from redis")
		return nil, errx.WrapRedis(err)
	}
	return b, nil
}

func (r *RedisStore) Save(ctx context.Context, key string, value []byte) error {
	if err := r.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to write key to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete key from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.KeyValueStore = (*RedisStore)(nil)
