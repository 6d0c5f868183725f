package helpers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisSetID stores an identity id under key with a ttl.
func RedisSetID(ctx context.Context, rdb *redis.Client, key string, id int64, ttl time.Duration) error {
	return rdb.Set(ctx, key, strconv.FormatInt(id, 10), ttl).Err()
}

// RedisGetID reads an identity id stored by RedisSetID. Missing keys report
// found=false without an error.
func RedisGetID(ctx context.Context, rdb *redis.Client, key string) (int64, bool, error) {
	s, err := rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func RedisDel(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err()
}
