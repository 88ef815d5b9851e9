package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-registration/internal/container"
	handlers "github.com/oksasatya/user-registration/internal/interface/http"
	"github.com/oksasatya/user-registration/internal/interface/middleware"
	"github.com/oksasatya/user-registration/pkg/helpers"
)

// UserModule wires registration routes under the given RouterGroup (usually /api).
// POST /v1/users registers and GET /v1/users?token= verifies, both public.
// GET /v1/users/search needs an operator bearer token.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	Allow   middleware.AllowFunc
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, allow middleware.AllowFunc) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Allow: allow}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	registerLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), m.Allow) // 10 req/min per IP
	verifyLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), m.Allow)
	searchLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyBySubject(), nil)

	users := rg.Group("/v1/users")
	users.POST("", registerLimiter, m.Handler.Register)
	users.GET("", verifyLimiter, m.Handler.Confirm)
	users.GET("/search", middleware.Auth(m.JWT, helpers.RoleOperator), searchLimiter, m.Handler.Search)
}
