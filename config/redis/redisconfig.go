package redisUtil

import (
	"context"
	"fmt"
	"time"

	"github.com/Anokela/aleksi-nokela-dev-academy-exercise-spring-2025/config/toml"

	"github.com/go-redis/redis/v8"
)

var Redis *RedisClient

// RedisClient extends the client and has its own functions
type RedisClient struct {
	*redis.Client
}

// NewRedisClient initializes the shared Redis client.
func NewRedisClient() error {
	if Redis != nil {
		return nil
	}
	urls := toml.GetConfig().Redis.Urls
	if len(urls) == 0 {
		return fmt.Errorf("no redis urls configured")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     urls[0],
		Password: toml.GetConfig().Redis.Password,
		DB:       0,
		PoolSize: 10,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,

		IdleCheckFrequency: 60 * time.Second,
		IdleTimeout:        5 * time.Minute,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return err
	}
	Redis = &RedisClient{client}
	return nil
}

func (redis *RedisClient) RSet(key string, value interface{}, ex int) error {
	return redis.Set(context.TODO(), key, value, time.Second*time.Duration(ex)).Err()
}

func (redis *RedisClient) RGet(key string) string {
	value, err := redis.Get(context.TODO(), key).Result()
	if err != nil {
		return ""
	}
	return value
}

// RIncr increments a counter key and returns the new value.
func (redis *RedisClient) RIncr(key string) int64 {
	value, err := redis.Incr(context.TODO(), key).Result()
	if err != nil {
		return 0
	}
	return value
}

func (redis *RedisClient) RDel(key string) {
	redis.Del(context.TODO(), key)
}

// Close the Redis client
func (redis *RedisClient) Close() {
	if redis.Client != nil {
		redis.Client.Close()
	}
}

// GetRedisClient returns the shared client, connecting lazily. The cache is
// optional, callers must tolerate a nil client.
func GetRedisClient() (*RedisClient, error) {
	if Redis == nil {
		if err := NewRedisClient(); err != nil {
			return nil, err
		}
	}
	return Redis, nil
}
