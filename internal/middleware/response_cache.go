package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/ArunDev-07/apple-podcast-backend/internal/cache"
	"github.com/ArunDev-07/apple-podcast-backend/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResponseCacheMiddleware caches successful GET responses with configurable TTL
// Only caches 2xx responses
// Adds X-Cache: HIT/MISS header for debugging
// Cache key is: response:{path}:{query_string}:{user_id}
func ResponseCacheMiddleware(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "GET" {
			c.Next()
			return
		}

		redisClient := cache.GetRedisClient()
		if redisClient == nil {
			// Redis not available, skip caching
			c.Next()
			return
		}

		userID := c.GetString("user_id")
		cacheKey := generateCacheKey(c.Request.URL.Path, c.Request.URL.RawQuery, userID)
		ctx := c.Request.Context()

		cachedData, err := redisClient.Get(ctx, cacheKey)
		if err == nil {
			RecordCacheHit("response_cache")
			c.Header("X-Cache", "HIT")
			c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", int(ttl.Seconds())))
			c.Data(http.StatusOK, "application/json", []byte(cachedData))
			c.Abort()
			return
		}

		RecordCacheMiss("response_cache")

		// Cache miss - capture response and cache it
		writer := &cachedResponseWriter{
			ResponseWriter: c.Writer,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer
		c.Header("X-Cache", "MISS")
		c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", int(ttl.Seconds())))

		c.Next()

		// Only cache successful responses
		if writer.statusCode >= 200 && writer.statusCode < 300 {
			bodyStr := writer.body.String()
			if bodyStr != "" {
				if err := redisClient.SetEx(ctx, cacheKey, bodyStr, ttl); err != nil {
					logger.Log.Debug("Failed to write response to cache",
						zap.String("key", cacheKey),
						zap.Error(err),
					)
				}
			}
		}
	}
}

// generateCacheKey creates a cache key from request path, query params, and user ID
func generateCacheKey(path, query, userID string) string {
	key := fmt.Sprintf("response:%s", path)

	if query != "" {
		key = fmt.Sprintf("%s:%s", key, query)
	}

	if userID != "" {
		key = fmt.Sprintf("%s:%s", key, userID)
	}

	return key
}

// cachedResponseWriter intercepts response writes to capture the response body
type cachedResponseWriter struct {
	gin.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

// Write writes data to the response while capturing it for caching
func (w *cachedResponseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

// WriteHeader records the HTTP status code
func (w *cachedResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// InvalidateUserResponses drops every cached GET response for a user.
// Engagement mutations call this so the library and list views never serve
// state older than the mutation that just succeeded.
func InvalidateUserResponses(c *gin.Context, userID string) {
	redisClient := cache.GetRedisClient()
	if redisClient == nil || userID == "" {
		return
	}

	ctx := c.Request.Context()
	pattern := fmt.Sprintf("response:*:%s", userID)

	keys, err := redisClient.Keys(ctx, pattern)
	if err != nil {
		logger.Log.Debug("Failed to find cache keys for invalidation",
			zap.String("pattern", pattern),
			zap.Error(err),
		)
		return
	}

	if len(keys) > 0 {
		if err := redisClient.Del(ctx, keys...); err != nil {
			logger.Log.Warn("Failed to invalidate cache",
				zap.Strings("keys", keys),
				zap.Error(err),
			)
		}
	}
}
