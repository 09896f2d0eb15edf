package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"cv-platform-backend/internal/delivery/http/response"
	"cv-platform-backend/pkg/metrics"
	"cv-platform-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for one rate limit scope
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// KeyFunc extracts the subject (default: client IP)
	KeyFunc func(*gin.Context) string
	// KeyPrefix namespaces the Redis keys and names the metric scope
	KeyPrefix string
	// FailClosed rejects requests when Redis errors instead of falling back
	FailClosed bool
}

// DefaultRateLimitConfig is the global per-IP limit.
func DefaultRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:ip:",
		KeyFunc:   func(c *gin.Context) string { return c.ClientIP() },
	}
}

// AuthRateLimitConfig returns strict config for authentication endpoints
func AuthRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:      10,
		Window:     time.Minute,
		KeyPrefix:  "rl:auth:",
		FailClosed: true,
		KeyFunc:    func(c *gin.Context) string { return c.ClientIP() },
	}
}

// GenerateRateLimitConfig limits CV generation, the most expensive route.
func GenerateRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:     10,
		Window:    time.Minute,
		KeyPrefix: "rl:generate:",
		KeyFunc:   func(c *gin.Context) string { return c.ClientIP() },
	}
}

// Atomic increment with TTL on first set.
// KEYS[1] = counter key, ARGV[1] = TTL in seconds. Returns {count, ttl}.
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

type rateLimitEntry struct {
	count   int
	resetAt time.Time
	mu      sync.Mutex
}

// RateLimiter counts requests in Redis when a client is configured and in
// process memory otherwise.
type RateLimiter struct {
	client      *goredis.Client
	audit       *security.SecurityLogger
	store       sync.Map
	cleanupOnce sync.Once
	now         func() time.Time
}

func NewRateLimiter(client *goredis.Client, audit *security.SecurityLogger) *RateLimiter {
	return &RateLimiter{client: client, audit: audit, now: time.Now}
}

// Middleware creates a rate limiting handler for config.
func (rl *RateLimiter) Middleware(config RateLimitConfig) gin.HandlerFunc {
	rl.cleanupOnce.Do(rl.startCleanup)

	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)

		var (
			count   int
			resetAt time.Time
			err     error
		)
		if rl.client != nil {
			count, resetAt, err = rl.checkRedis(c.Request.Context(), fullKey, config)
			if err != nil {
				if config.FailClosed {
					rl.audit.Log(c.Request.Context(), security.SecurityEvent{
						Event:       security.EventRateLimitTriggered,
						SubjectType: "system",
						IP:          c.ClientIP(),
						Details:     map[string]any{"error_type": "redis_error", "error": err.Error()},
					})
					response.Error(c, http.StatusServiceUnavailable, "Service temporairement indisponible. Veuillez réessayer.", "")
					c.Abort()
					return
				}
				count, resetAt = rl.checkInMemory(fullKey, config)
			}
		} else {
			count, resetAt = rl.checkInMemory(fullKey, config)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(resetAt.Sub(rl.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			metrics.RateLimitExceeded.WithLabelValues(config.KeyPrefix).Inc()
			rl.audit.LogRateLimitTriggered(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"), c.GetString("RequestID"), c.FullPath())

			response.Error(c, http.StatusTooManyRequests, "Trop de requêtes. Veuillez réessayer plus tard.", "")
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.Limit-count))
		c.Next()
	}
}

func (rl *RateLimiter) checkRedis(ctx context.Context, key string, config RateLimitConfig) (int, time.Time, error) {
	ttlSeconds := int(config.Window.Seconds())

	result, err := rl.client.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), rl.now().Add(time.Duration(ttl) * time.Second), nil
}

func (rl *RateLimiter) checkInMemory(key string, config RateLimitConfig) (int, time.Time) {
	now := rl.now()
	entryI, _ := rl.store.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(config.Window)})
	entry := entryI.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(config.Window)
	}
	entry.count++
	return entry.count, entry.resetAt
}

// startCleanup drops expired in-memory entries every few minutes.
func (rl *RateLimiter) startCleanup() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			now := rl.now()
			rl.store.Range(func(key, value interface{}) bool {
				entry := value.(*rateLimitEntry)
				entry.mu.Lock()
				if now.After(entry.resetAt) {
					rl.store.Delete(key)
				}
				entry.mu.Unlock()
				return true
			})
		}
	}()
}
