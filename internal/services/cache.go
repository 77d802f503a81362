package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mindhaven-app/mindhaven-backend/internal/database"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// CounsellorsCacheKey caches the public counsellor directory
	CounsellorsCacheKey = "counsellors"
	// CounsellorsCacheTTL keeps the directory fresh enough for the dashboard
	CounsellorsCacheTTL = 5 * time.Minute
)

// CacheGet retrieves a cached JSON value into dest. A miss is not an error.
func CacheGet(ctx context.Context, key string, dest interface{}) bool {
	if database.RedisClient == nil {
		return false
	}
	val, err := database.RedisClient.Get(ctx, CacheKeyPrefix+key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

// CacheSet stores a JSON-encoded value with a TTL. Failures are swallowed;
// the cache is best effort.
func CacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if database.RedisClient == nil {
		return
	}
	jsonData, err := json.Marshal(value)
	if err != nil {
		return
	}
	database.RedisClient.Set(ctx, CacheKeyPrefix+key, jsonData, ttl)
}

// CacheDelete drops a cached value.
func CacheDelete(ctx context.Context, key string) {
	if database.RedisClient == nil {
		return
	}
	database.RedisClient.Del(ctx, CacheKeyPrefix+key)
}
