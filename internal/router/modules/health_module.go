package modules

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/user-registration/pkg/response"
)

// HealthModule serves GET /api/health. Postgres is required; Redis only
// degrades rate limiting, so its failure is reported but not fatal.
type HealthModule struct {
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func NewHealthModule(db *pgxpool.Pool, rdb *redis.Client) *HealthModule {
	return &HealthModule{DB: db, Redis: rdb}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.check)
}

func (m *HealthModule) check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"postgres": "disabled", "redis": "disabled"}
	healthy := true
	if m.DB != nil {
		checks["postgres"] = "ok"
		if err := m.DB.Ping(ctx); err != nil {
			checks["postgres"] = err.Error()
			healthy = false
		}
	}
	if m.Redis != nil {
		checks["redis"] = "ok"
		if err := m.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
		}
	}

	if !healthy {
		response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", checks)
		return
	}
	response.Success(c, http.StatusOK, checks, "ok", nil)
}
