package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-registration/config"
	"github.com/oksasatya/user-registration/internal/container"
	"github.com/oksasatya/user-registration/pkg/helpers"
	"github.com/oksasatya/user-registration/pkg/mailer"
	"github.com/oksasatya/user-registration/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(context.Context, mailer.EmailJob) error { return nil }

type pingModule struct{}

func (pingModule) Register(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("mw")) })
}

func TestRegistry_MountsModulesUnderAPI(t *testing.T) {
	r := gin.New()
	reg := NewRegistry(r)
	reg.Use(func(c *gin.Context) { c.Set("mw", "ran"); c.Next() })
	reg.Add(pingModule{})
	reg.RegisterAll()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ran", w.Body.String())
}

func newApp(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	container.SetConfig(cfg)
	container.SetDispatcher(nopDispatcher{})
	t.Cleanup(func() {
		container.SetConfig(nil)
		container.SetDispatcher(nil)
	})

	r := gin.New()
	reg := NewRegistry(r)
	require.NoError(t, InitModules(reg))
	reg.RegisterAll()
	return r
}

func TestInitModules_Routes(t *testing.T) {
	cfg := config.Load()
	r := newApp(t, cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(`{"email":"nope"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "memstats")
}

func TestInitModules_DebugDisabled(t *testing.T) {
	cfg := config.Load()
	cfg.DebugMetricsEnabled = false
	r := newApp(t, cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInitModules_BadVariant(t *testing.T) {
	cfg := config.Load()
	cfg.EmailVariant = "carrier_pigeon"
	container.SetConfig(cfg)
	t.Cleanup(func() { container.SetConfig(nil) })

	require.Error(t, InitModules(NewRegistry(gin.New())))
}

func TestRegistry_RegisterAllOnceAndRoutes(t *testing.T) {
	reg := NewRegistry(gin.New())
	reg.Add(pingModule{})
	reg.RegisterAll()
	assert.NotPanics(t, reg.RegisterAll)

	assert.Equal(t, []string{"GET /api/ping"}, reg.Routes())
}

func TestInitModules_HealthWithoutBackends(t *testing.T) {
	r := newApp(t, config.Load())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"postgres":"disabled"`)
}

func TestInitModules_SearchRequiresOperatorToken(t *testing.T) {
	cfg := config.Load()
	cfg.JWTSecret = "test-secret"
	r := newApp(t, cfg)

	search := func(authz string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/search?q=ana", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, search(""))
	assert.Equal(t, http.StatusUnauthorized, search("Bearer not-a-jwt"))

	jwt := helpers.NewJWTManager(cfg.JWTSecret, time.Minute, cfg.AppName)
	token, _, err := jwt.GenerateToken("ops@example.com", helpers.RoleOperator)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, search("Bearer "+token))
}

func TestInitModules_SearchClosedWithoutSecret(t *testing.T) {
	cfg := config.Load()
	cfg.JWTSecret = ""
	r := newApp(t, cfg)

	token, _, err := helpers.NewJWTManager("other", time.Minute, cfg.AppName).GenerateToken("ops", helpers.RoleOperator)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/search?q=ana", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
