// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"concierge/config"

	"github.com/go-redis/redis/v8"
)

var (
	// RateLimitClient backs the shared request-gate counters.
	RateLimitClient *redis.Client
	// ContextClient is the dedicated client for assistant conversation context.
	ContextClient *redis.Client
)

// InitRateLimitCache initializes the Redis client used by the request gate.
func InitRateLimitCache() {
	RateLimitClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisRateLimitDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := RateLimitClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Rate Limit): %v", err)
	}
}

// GetRateLimitCacheClient returns the rate-limit Redis client.
func GetRateLimitCacheClient() *redis.Client {
	if RateLimitClient == nil {
		InitRateLimitCache()
	}
	return RateLimitClient
}

// InitContextCache initializes the Redis client for conversation context.
func InitContextCache() {
	ContextClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisContextDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := ContextClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Context Cache): %v", err)
	}
}

// GetContextCacheClient returns the conversation-context Redis client.
func GetContextCacheClient() *redis.Client {
	if ContextClient == nil {
		InitContextCache()
	}
	return ContextClient
}
