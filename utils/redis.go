package utils

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Romain-GUILLEMOT/TubeBack/config"
	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

func InitRedis() {
	cfg := config.GetConfig()
	db, _ := strconv.Atoi(cfg.RedisDB)

	Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisHost,
		Password: cfg.RedisPass,
		DB:       db,
	})

	if _, err := Redis.Ping(Ctx).Result(); err != nil {
		Fatal("Redis connection failed", "error", err)
	}

	Success("Redis connected successfully.")
}

// RedisSet stores key and, for every index key given, adds the key's suffix
// to that set with the same TTL.
func RedisSet(key, value string, ttl time.Duration, indexKeys ...string) error {
	pipe := Redis.TxPipeline()

	pipe.Set(Ctx, key, value, ttl)

	for _, indexKey := range indexKeys {
		pipe.SAdd(Ctx, indexKey, extractTokenFromKey(key))
		pipe.Expire(Ctx, indexKey, ttl)
	}

	_, err := pipe.Exec(Ctx)
	return err
}

func RedisGet(key string) (string, error) {
	return Redis.Get(Ctx, key).Result()
}

func RedisDel(key string) error {
	return Redis.Del(Ctx, key).Err()
}

func RedisTTL(key string) (time.Duration, error) {
	return Redis.TTL(Ctx, key).Result()
}

func extractTokenFromKey(fullKey string) string {
	parts := strings.SplitN(fullKey, ":", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return fullKey
}
