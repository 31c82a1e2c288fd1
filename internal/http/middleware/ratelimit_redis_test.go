package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	pass := os.Getenv("REDIS_PASSWORD")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			db = n
		}
	}

	require.True(t, InitRedisRateLimiter(addr, pass, db))
	t.Cleanup(func() {
		_ = redisClient.Close()
		redisClient = nil
	})

	// small window for test
	w := 2 * time.Second
	limit := 2
	path := "/test"

	r := gin.New()
	r.GET(path, RedisRateLimit("test", limit, w), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	for i := 0; i < limit; i++ {
		res, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		_ = res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
	}

	res, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	_ = res.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
}

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = redisClient.Close()
		redisClient = nil
	})
	return mr
}

func TestRedisRateLimit_ScopesDoNotShareCounters(t *testing.T) {
	mr := useMiniredis(t)

	r := gin.New()
	api := r.Group("/api", RedisRateLimit("api", 60, time.Minute))
	api.GET("/rewards", func(c *gin.Context) { c.Status(http.StatusOK) })
	api.POST("/validate", RedisRateLimit("validate", 10, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(method, path string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w.Code
	}

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, do(http.MethodGet, "/api/rewards"))
	}
	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/api/validate"))

	ip := "192.0.2.1"
	api60, err := mr.Get(rateKey("api", time.Minute, ip))
	require.NoError(t, err)
	assert.Equal(t, "11", api60)
	validate, err := mr.Get(rateKey("validate", time.Minute, ip))
	require.NoError(t, err)
	assert.Equal(t, "1", validate)

	for i := 1; i < 10; i++ {
		require.Equal(t, http.StatusOK, do(http.MethodPost, "/api/validate"))
	}
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "/api/validate"))
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/api/rewards"))
}

func TestRedisRateLimit_WindowExpires(t *testing.T) {
	mr := useMiniredis(t)

	r := gin.New()
	r.GET("/x", RedisRateLimit("x", 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, do())
}
