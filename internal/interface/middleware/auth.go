package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-registration/pkg/helpers"
	"github.com/oksasatya/user-registration/pkg/response"
)

// CtxSubjectKey holds the authenticated token subject.
const CtxSubjectKey = "subject"

// Auth requires an "Authorization: Bearer <jwt>" header whose token carries
// role. A nil manager rejects everything.
func Auth(jwt *helpers.JWTManager, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, _ := strings.Cut(c.GetHeader("Authorization"), " ")
		token = strings.TrimSpace(token)
		if !strings.EqualFold(scheme, "Bearer") || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid bearer token", nil)
			return
		}
		if claims.Role != role {
			response.Error[any](c, http.StatusForbidden, "insufficient role", nil)
			return
		}
		c.Set(CtxSubjectKey, claims.Subject)
		c.Next()
	}
}

// KeyBySubject keys the limiter by token subject, falling back to IP.
func KeyBySubject() KeyFunc {
	return func(c *gin.Context) string {
		if sub := c.GetString(CtxSubjectKey); sub != "" {
			return "rl:sub:" + sub
		}
		return "rl:ip:" + ipFromCtx(c)
	}
}
