package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cv-platform-backend/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before block
	AttemptWindow time.Duration // window the failure counter lives for
	BlockDuration time.Duration // how long a block lasts
	UseIPTracking bool          // also track by IP address
}

// DefaultLoginTrackerConfig returns sensible defaults
func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		UseIPTracking: true,
	}
}

// LoginTracker tracks failed login attempts in Redis and enforces blocks.
// Without a Redis client it fails open: nothing is tracked or blocked.
type LoginTracker struct {
	client goredis.Cmdable
	config LoginTrackerConfig
	logger *SecurityLogger
}

// NewLoginTracker creates a tracker. client may be nil.
func NewLoginTracker(client *goredis.Client, config LoginTrackerConfig, logger *SecurityLogger) *LoginTracker {
	lt := &LoginTracker{config: config, logger: logger}
	if client != nil {
		lt.client = client
	}
	return lt
}

// Enabled reports whether attempts are actually tracked.
func (lt *LoginTracker) Enabled() bool {
	return lt != nil && lt.client != nil
}

// Redis key patterns
const (
	failLoginUserPrefix    = "fail:login:user:"
	failLoginIPPrefix      = "fail:login:ip:"
	blockedLoginUserPrefix = "blocked:login:user:"
	blockedLoginIPPrefix   = "blocked:login:ip:"
)

// Atomic increment with TTL on first set.
// KEYS[1] = counter key, ARGV[1] = TTL in seconds. Returns the new count.
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

// IsBlocked checks if the given email or IP is currently blocked
func (lt *LoginTracker) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	if !lt.Enabled() {
		return false, nil
	}

	exists, err := lt.client.Exists(ctx, blockedLoginUserPrefix+email).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check user block: %w", err)
	}
	if exists > 0 {
		return true, nil
	}

	if lt.config.UseIPTracking && ip != "" {
		exists, err := lt.client.Exists(ctx, blockedLoginIPPrefix+ip).Result()
		if err != nil {
			return false, fmt.Errorf("failed to check IP block: %w", err)
		}
		if exists > 0 {
			return true, nil
		}
	}

	return false, nil
}

// RecordFailedAttempt records a failed login and reports whether the subject
// is now blocked along with the current attempt count.
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, email, ip, userAgent, requestID string) (bool, int, error) {
	if lt == nil {
		return false, 0, nil
	}
	lt.logger.LogLoginFailed(ctx, email, ip, userAgent, requestID, "invalid_credentials")
	if !lt.Enabled() {
		return false, 0, nil
	}

	ttlSeconds := int(lt.config.AttemptWindow.Seconds())

	userCount, err := lt.atomicIncrement(ctx, failLoginUserPrefix+email, ttlSeconds)
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment user counter: %w", err)
	}

	if lt.config.UseIPTracking && ip != "" {
		_, _ = lt.atomicIncrement(ctx, failLoginIPPrefix+ip, ttlSeconds) // best effort
	}

	if userCount >= lt.config.MaxAttempts {
		if err := lt.createBlock(ctx, email, ip, requestID); err != nil {
			return true, userCount, fmt.Errorf("failed to create block: %w", err)
		}
		return true, userCount, nil
	}

	return false, userCount, nil
}

func (lt *LoginTracker) atomicIncrement(ctx context.Context, key string, ttlSeconds int) (int, error) {
	result, err := lt.client.Eval(ctx, incrWithTTLScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from Lua script")
	}
	return int(count), nil
}

func (lt *LoginTracker) createBlock(ctx context.Context, email, ip, requestID string) error {
	blockTTL := lt.config.BlockDuration

	if err := lt.client.Set(ctx, blockedLoginUserPrefix+email, "1", blockTTL).Err(); err != nil {
		return fmt.Errorf("failed to set user block: %w", err)
	}

	if lt.config.UseIPTracking && ip != "" {
		if err := lt.client.Set(ctx, blockedLoginIPPrefix+ip, "1", blockTTL).Err(); err != nil {
			logger.Log.Warn("failed to set IP block", "ip", ip, "error", err)
		}
	}

	lt.logger.LogBlockCreated(ctx, "email", email, ip, requestID, int(blockTTL.Minutes()))
	return nil
}

// ClearAttempts clears failed login attempts on successful login
func (lt *LoginTracker) ClearAttempts(ctx context.Context, email, ip string) error {
	if !lt.Enabled() {
		return nil
	}

	if err := lt.client.Del(ctx, failLoginUserPrefix+email).Err(); err != nil {
		return fmt.Errorf("failed to clear user attempts: %w", err)
	}
	if lt.config.UseIPTracking && ip != "" {
		_ = lt.client.Del(ctx, failLoginIPPrefix+ip).Err()
	}
	return nil
}

// GetBlockTTL returns how long until the block on email expires
func (lt *LoginTracker) GetBlockTTL(ctx context.Context, email string) (time.Duration, bool, error) {
	if !lt.Enabled() {
		return 0, false, nil
	}

	ttl, err := lt.client.TTL(ctx, blockedLoginUserPrefix+email).Result()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get block TTL: %w", err)
	}
	if ttl < 0 {
		return 0, false, nil
	}
	return ttl, true, nil
}
