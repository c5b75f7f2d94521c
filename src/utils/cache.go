package utils

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const testKey = "connTest"

// RedisCounter backs the request rate limiter.
type RedisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(ctx context.Context, connUrl string) (*RedisCounter, error) {
	opt, err := redis.ParseURL(connUrl)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opt)

	// round-trip a random value to make sure the connection works
	testData := strconv.Itoa(rand.IntN(15000))
	if err := rdb.Set(ctx, testKey, testData, 5*time.Minute).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("set test data: %w", err)
	}

	res, err := rdb.Get(ctx, testKey).Result()
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("get test data: %w", err)
	}
	if res != testData {
		rdb.Close()
		return nil, fmt.Errorf("incorrect test data returned: expected %s, got %s", testData, res)
	}

	return &RedisCounter{rdb: rdb}, nil
}

func InitCache(connUrl string) *RedisCounter {
	logger := zap.L()
	logger.Info("Trying to establish a connection with redis cache...")

	counter, err := NewRedisCounter(context.Background(), connUrl)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}

	logger.Info("Successfully connected to the cache")
	return counter
}

func (rc *RedisCounter) Close() error {
	return rc.rdb.Close()
}

// Increment bumps the key and starts its expiry window if it has none.
// Both commands go out in one MULTI, so a key is never left without a ttl.
// EXPIRE NX needs redis 7.
func (rc *RedisCounter) Increment(ctx context.Context, key string, expireAfter time.Duration) (int64, error) {
	var count *redis.IntCmd
	_, err := rc.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, expireAfter)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count.Val(), nil
}
