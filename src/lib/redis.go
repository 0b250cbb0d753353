package lib

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

// CacheGetJSON loads a cached JSON payload into v. Returns false on a miss
// or when redis is unavailable; callers fall through to the origin.
func CacheGetJSON(ctx context.Context, key string, v any) bool {
	rd := GetRedisClient()
	if rd == nil {
		return false
	}
	val := rd.JSONGet(ctx, key).Val()
	if val == "" {
		return false
	}
	if err := json.Unmarshal([]byte(val), v); err != nil {
		log.Printf("[redis] Error on json unmarshal for %s: %s\n", key, err.Error())
		return false
	}
	return true
}

func CacheSetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	if _, err := rd.JSONSet(ctx, key, "$", v).Result(); err != nil {
		log.Printf("[redis] Error updating cache for %s: %s\n", key, err.Error())
		return
	}
	if ttl > 0 {
		rd.Expire(ctx, key, ttl)
	}
}
