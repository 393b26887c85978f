package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	Client *redis.Client
	ctx    = context.Background()
)

func InitRedis(logger *zap.Logger) error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	addr := fmt.Sprintf("%s:%s", host, port)

	Client = redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if err := Client.Ping(ctx).Err(); err != nil {
		logger.Error("redis_connection_failed",
			zap.Error(err),
			zap.String("addr", addr),
		)
		return err
	}

	logger.Info("redis_connected", zap.String("addr", addr))
	return nil
}

var errNoClient = fmt.Errorf("cache not initialized")

func Set(key string, value interface{}, expiration time.Duration) error {
	if Client == nil {
		return errNoClient
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	return Client.Set(ctx, key, data, expiration).Err()
}

// Get reads a key and unmarshals it into dest. A miss is an error so the
// caller falls through to the source of truth.
func Get(key string, dest interface{}) error {
	if Client == nil {
		return errNoClient
	}
	val, err := Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return fmt.Errorf("cache miss: %w", err)
	} else if err != nil {
		return fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return nil
}

func Delete(key string) error {
	if Client == nil {
		return errNoClient
	}
	return Client.Del(ctx, key).Err()
}

// DeletePattern removes every key matching pattern (e.g. cache:<user>:*).
func DeletePattern(pattern string) error {
	if Client == nil {
		return errNoClient
	}
	var cursor uint64
	for {
		keys, next, err := Client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		if len(keys) > 0 {
			if err := Client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete keys failed: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}

// IncrementCounter bumps a counter, arming the TTL on the first hit only.
// Used by the rate limiter.
func IncrementCounter(key string, expiration time.Duration) (int64, error) {
	if Client == nil {
		return 0, errNoClient
	}
	val, err := Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	if val == 1 {
		if err := Client.Expire(ctx, key, expiration).Err(); err != nil {
			return val, err
		}
	}

	return val, nil
}

func Close() error {
	if Client != nil {
		return Client.Close()
	}
	return nil
}
