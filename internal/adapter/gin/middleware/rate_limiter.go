package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiterConfig holds configuration for the HTTP rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstCapacity     int
	Enabled           bool
}

// RateLimiter returns a Gin middleware for rate limiting using the Token
// Bucket algorithm backed by Redis. On Redis errors requests are allowed
// through (fail open).
func RateLimiter(client *redis.Client, cfg RateLimiterConfig, log *zap.Logger) gin.HandlerFunc {
	// Token Bucket algorithm implemented in Lua for atomicity.
	// Data structure: {last_refill_time, current_tokens}
	luaScript := `
		local key = KEYS[1]
		local rate = tonumber(ARGV[1])         -- tokens per second
		local capacity = tonumber(ARGV[2])     -- max tokens in bucket
		local now = tonumber(ARGV[3])          -- current timestamp
		local requested = tonumber(ARGV[4])    -- tokens requested (always 1)

		local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
		local last_refill = tonumber(bucket[1]) or now
		local tokens = tonumber(bucket[2]) or capacity

		local elapsed = math.max(0, now - last_refill)
		tokens = math.min(capacity, tokens + elapsed * rate)

		if tokens >= requested then
			tokens = tokens - requested
			redis.call('HMSET', key, 'last_refill', now, 'tokens', tokens)
			redis.call('EXPIRE', key, 60)
			return 1
		end

		redis.call('HMSET', key, 'last_refill', now, 'tokens', tokens)
		redis.call('EXPIRE', key, 60)
		return 0
	`

	return func(c *gin.Context) {
		if !cfg.Enabled || client == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:tb:%s:%s:%s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
		now := float64(time.Now().UnixMilli()) / 1000.0

		allowed, err := client.Eval(c.Request.Context(), luaScript, []string{key},
			cfg.RequestsPerSecond, cfg.BurstCapacity, now, 1).Int64()
		if err != nil {
			log.Warn("rate limiter redis error, allowing request",
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if allowed == 0 {
			log.Warn("rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"data":   []any{},
				"errors": []string{"rate limit exceeded, try again later"},
			})
			return
		}

		c.Next()
	}
}
