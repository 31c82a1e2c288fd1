package middleware

import (
	"net/http"
	"strings"

	"trashcash_webapp/internal/initdata"
	"trashcash_webapp/internal/logger"
	"trashcash_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	HeaderInitData = "X-Init-Data"
	QueryInitData  = "initData"

	ctxUserID  = "user_id"
	ctxPayload = "init_payload"
)

type initDataBody struct {
	InitData string `json:"initData"`
}

// InitDataFromRequest returns the raw envelope from the X-Init-Data header,
// the initData query parameter or, for JSON bodies, the initData field.
func InitDataFromRequest(c *gin.Context) string {
	if v := c.GetHeader(HeaderInitData); v != "" {
		return v
	}
	if v := c.Query(QueryInitData); v != "" {
		return v
	}
	if c.Request.Body != nil && c.ContentType() == binding.MIMEJSON {
		var body initDataBody
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err == nil {
			return body.InitData
		}
	}
	return ""
}

// Auth admits a request carrying either a session token issued by
// /api/validate or valid init data, and stores the user id in the context.
// sessions may be nil.
func Auth(v *initdata.Validator, sessions *service.SessionIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions != nil {
			if token, ok := bearerToken(c); ok {
				userID, err := sessions.Parse(token)
				if err != nil {
					unauthorized(c)
					return
				}
				c.Set(ctxUserID, userID)
				c.Next()
				return
			}
		}

		raw := InitDataFromRequest(c)
		if raw == "" && !v.Bypassing() {
			unauthorized(c)
			return
		}

		userID, payload, err := ValidateInitData(v, raw)
		if err != nil {
			logger.WithContext(c.Request.Context()).Debug("init data rejected", "path", c.FullPath())
			unauthorized(c)
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxPayload, payload)
		c.Next()
	}
}

// ValidateInitData runs the validator and counts the outcome.
func ValidateInitData(v *initdata.Validator, raw string) (int64, *initdata.Payload, error) {
	userID, payload, err := v.UserID(raw)
	switch {
	case err != nil:
		InitDataValidations.WithLabelValues("invalid").Inc()
	case v.Bypassing():
		InitDataValidations.WithLabelValues("bypass").Inc()
	default:
		InitDataValidations.WithLabelValues("ok").Inc()
	}
	return userID, payload, err
}

// UserID returns the id stored by Auth.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id != 0
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(h[7:])
	return token, token != ""
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}
