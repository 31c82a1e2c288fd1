package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// UserRateLimit limits an action per user (not per IP), e.g. recycling
// submissions. Requires Auth to run before it.
func UserRateLimit(action string, maxActions int, window time.Duration) gin.HandlerFunc {
	local := newLocalLimiter(maxActions, window)
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			unauthorized(c)
			return
		}
		ident := strconv.FormatInt(userID, 10)

		if redisClient == nil {
			if !local.allow(ident) {
				blockUser(c, action, window)
				return
			}
			RLRequests.WithLabelValues("user:" + action).Inc()
			c.Next()
			return
		}

		key := "user_rl:" + action + ":" + ident + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		val, err := incrWindow(ctx, key, window)
		if err != nil {
			c.Header("X-UserRateLimit-Error", "redis-error")
			c.Next()
			return
		}

		c.Header("X-UserRateLimit-Limit", strconv.Itoa(maxActions))
		c.Header("X-UserRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxActions)-val), 10))

		if val > int64(maxActions) {
			blockUser(c, action, window)
			return
		}

		RLRequests.WithLabelValues("user:" + action).Inc()
		c.Next()
	}
}

func blockUser(c *gin.Context, action string, window time.Duration) {
	RLBlocked.WithLabelValues("user:" + action).Inc()
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       "too many " + action + " requests",
		"retry_after": int(window.Seconds()),
	})
}
