package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// localLimiter is the in-process fallback used while Redis is not
// configured. Limits are per instance.
type localLimiter struct {
	mu       sync.Mutex
	limiters map[string]*localEntry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	lastGC   time.Time
}

type localEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

func newLocalLimiter(maxRequests int, window time.Duration) *localLimiter {
	if maxRequests <= 0 {
		maxRequests = 1
	}
	return &localLimiter{
		limiters: make(map[string]*localEntry),
		limit:    rate.Every(window / time.Duration(maxRequests)),
		burst:    maxRequests,
		idleTTL:  2 * window,
		lastGC:   time.Now(),
	}
}

func (l *localLimiter) allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastGC) > l.idleTTL {
		for k, e := range l.limiters {
			if now.Sub(e.seen) > l.idleTTL {
				delete(l.limiters, k)
			}
		}
		l.lastGC = now
	}

	e, ok := l.limiters[key]
	if !ok {
		e = &localEntry{lim: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1)
}

// LocalRateLimit limits each client IP to maxRequests per window in this
// process only.
func LocalRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	l := newLocalLimiter(maxRequests, window)
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
