package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"trashcash_webapp/internal/initdata"
	"trashcash_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "s3cr3t"

func init() {
	gin.SetMode(gin.TestMode)
}

func signedEnvelope(id string) string {
	return initdata.Envelope(`{"user":{"id":`+id+`,"first_name":"Ann"}}`, testSecret)
}

func authRouter(v *initdata.Validator, sessions *service.SessionIssuer) *gin.Engine {
	r := gin.New()
	r.Any("/me", Auth(v, sessions), func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	return r
}

func TestAuth_Sources(t *testing.T) {
	v := initdata.NewValidator(testSecret, false)
	r := authRouter(v, nil)
	env := signedEnvelope("42")

	t.Run("header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(HeaderInitData, env)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":42}`, w.Body.String())
	})

	t.Run("query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me?initData="+url.QueryEscape(env), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("json body", func(t *testing.T) {
		body := `{"initData":"` + env + `"}`
		req := httptest.NewRequest(http.MethodPost, "/me", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuth_BodyStillReadableByHandler(t *testing.T) {
	v := initdata.NewValidator(testSecret, false)
	r := gin.New()
	r.POST("/submit", Auth(v, nil), func(c *gin.Context) {
		var req struct {
			Method string `json:"method"`
		}
		require.NoError(t, c.ShouldBindBodyWith(&req, binding.JSON))
		c.String(http.StatusOK, req.Method)
	})

	body := `{"initData":"` + signedEnvelope("7") + `","method":"qr"}`
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "qr", w.Body.String())
}

func TestAuth_Rejects(t *testing.T) {
	v := initdata.NewValidator(testSecret, false)
	r := authRouter(v, nil)

	cases := map[string]string{
		"missing":     "",
		"wrong key":   initdata.Envelope(`{"user":{"id":42}}`, "other"),
		"no user id":  initdata.Envelope(`{"user":{"first_name":"Ann"}}`, testSecret),
		"not a query": "%zz",
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if env != "" {
				req.Header.Set(HeaderInitData, env)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
		})
	}
}

func TestAuth_Bypass(t *testing.T) {
	r := authRouter(initdata.NewValidator("", true), nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":123456}`, w.Body.String())
}

func TestAuth_NoSecretNoBypassRejects(t *testing.T) {
	r := authRouter(initdata.NewValidator("", false), nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderInitData, signedEnvelope("42"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_BearerSession(t *testing.T) {
	sessions := service.NewSessionIssuer("jwt-secret", time.Hour)
	r := authRouter(initdata.NewValidator(testSecret, false), sessions)

	token, err := sessions.Issue(99)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":99}`, w.Body.String())

	// a bad token is not rescued by valid init data
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer nope")
	req.Header.Set(HeaderInitData, signedEnvelope("42"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://app.example"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger_ID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Header().Get(HeaderRequestID), 36)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(HeaderRequestID))
}

func TestLocalRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/x", LocalRateLimit(2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestRedisRateLimit_FallsBackWithoutRedis(t *testing.T) {
	require.Nil(t, RedisClient())

	r := gin.New()
	r.GET("/x", RedisRateLimit("x", 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestUserRateLimit_PerUser(t *testing.T) {
	v := initdata.NewValidator(testSecret, false)
	r := gin.New()
	r.GET("/act", Auth(v, nil), UserRateLimit("act", 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(id string) int {
		req := httptest.NewRequest(http.MethodGet, "/act", nil)
		req.Header.Set(HeaderInitData, signedEnvelope(id))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("1"))
	assert.Equal(t, http.StatusTooManyRequests, do("1"))
	assert.Equal(t, http.StatusOK, do("2"))
}
