package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oksasatya/user-registration/internal/container"
	"github.com/oksasatya/user-registration/internal/interface/middleware"
	"github.com/oksasatya/user-registration/internal/observability/metrics"
)

// DebugModule exposes expvar under the API group and Prometheus at the root.
type DebugModule struct {
	Root gin.IRoutes
}

func NewDebugModule(root gin.IRoutes) *DebugModule { return &DebugModule{Root: root} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	metrics.MustRegister()

	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	if m.Root != nil {
		m.Root.GET("/metrics", rl, gin.WrapH(promhttp.Handler()))
	}
}
