package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"trashcash_webapp/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter initializes a shared Redis client used by the middleware.
// Provide addr (host:port), password and db index. If connection fails, redisClient remains nil
// and the limiters fall back to per-process limits.
func InitRedisRateLimiter(addr, password string, db int) bool {
	if addr == "" {
		return false
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-process rate limits", "addr", addr, "error", err)
		_ = client.Close()
		return false
	}
	redisClient = client
	return true
}

// RedisClient returns the shared client, or nil.
func RedisClient() *redis.Client {
	return redisClient
}

// incrWindow bumps key in a fixed window and returns the new count.
func incrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 {
		redisClient.Expire(ctx, key, window)
	}
	return val, nil
}

// rateKey keeps limiters with different scopes on separate counters.
func rateKey(scope string, window time.Duration, ident string) string {
	return "rl:" + scope + ":" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident
}

// RedisRateLimit implements a simple fixed-window rate limiter using Redis INCR/EXPIRE.
// key format: rl:<scope>:<window_seconds>:<identifier>
// Without Redis it degrades to LocalRateLimit.
func RedisRateLimit(scope string, maxRequests int, window time.Duration) gin.HandlerFunc {
	local := LocalRateLimit(maxRequests, window)
	return func(c *gin.Context) {
		if redisClient == nil {
			local(c)
			return
		}

		key := rateKey(scope, window, c.ClientIP())
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		val, err := incrWindow(ctx, key, window)
		if err != nil {
			// fail-open on Redis errors
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(scope).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(scope).Inc()
		c.Next()
	}
}
