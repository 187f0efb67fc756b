package utils

import (
	"context"
	"time"

	"memberportal/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	// CacheClient is the generic cache client.
	CacheClient *redis.Client
	// AuthCacheClient is the dedicated client for authorization caching.
	AuthCacheClient *redis.Client
)

func newRedisClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
}

// InitRedis connects both Redis clients. An unreachable Redis is logged and the
// client is left nil: caching is an optimisation, never a requirement.
func InitRedis() {
	CacheClient = pingOrNil(newRedisClient(config.AppConfig.RedisCacheDB), "cache")
	AuthCacheClient = pingOrNil(newRedisClient(config.AppConfig.RedisAuthDB), "auth")
}

func pingOrNil(client *redis.Client, name string) *redis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		GetLogger().Warn("Redis unavailable, continuing without it", zap.String("client", name), zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}

// GetCacheClient returns the generic cache client, possibly nil.
func GetCacheClient() *redis.Client {
	return CacheClient
}

// GetAuthCacheClient returns the Redis client for authorization caching, possibly nil.
func GetAuthCacheClient() *redis.Client {
	return AuthCacheClient
}

// CloseRedis releases both clients.
func CloseRedis() {
	for _, c := range []*redis.Client{CacheClient, AuthCacheClient} {
		if c != nil {
			_ = c.Close()
		}
	}
}
