package router

import (
	appuser "github.com/oksasatya/user-registration/internal/application"
	"github.com/oksasatya/user-registration/internal/container"
	pginfra "github.com/oksasatya/user-registration/internal/infrastructure/postgres"
	"github.com/oksasatya/user-registration/internal/infrastructure/search"
	handlers "github.com/oksasatya/user-registration/internal/interface/http"
	"github.com/oksasatya/user-registration/internal/interface/middleware"
	"github.com/oksasatya/user-registration/internal/router/modules"
	"github.com/oksasatya/user-registration/pkg/helpers"
)

type UserModuleDeps struct {
	Service *appuser.Service
	Handler *handlers.UserHandler
}

func buildUserDeps() (UserModuleDeps, error) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	store := pginfra.NewStore(container.GetPGPool())
	index := search.NewUserIndex(container.GetES(), cfg.ESUsersIndex, logger)

	service, err := appuser.NewService(store, container.GetDispatcher(), index, logger, cfg)
	if err != nil {
		return UserModuleDeps{}, err
	}
	return UserModuleDeps{
		Service: service,
		Handler: handlers.NewUserHandler(service, logger),
	}, nil
}

// InitModules builds the feature modules from the container and adds them
// to the registry. Call once at startup, before RegisterAll.
func InitModules(r *Registry) error {
	cfg := container.GetConfig()

	userDeps, err := buildUserDeps()
	if err != nil {
		return err
	}

	var allow middleware.AllowFunc
	if cfg.RateLimitBypassPrivate {
		allow = middleware.AllowPrivateIP()
	}
	r.Add(modules.NewHealthModule(container.GetPGPool(), container.GetRedis()))
	jwt := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTOperatorTTL, cfg.AppName)
	if logger := container.GetLogger(); jwt == nil && logger != nil {
		logger.Warn("JWT_SECRET not set, user search rejects every request")
	}
	r.Add(modules.NewUserModule(userDeps.Handler, jwt, allow))

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(r.Engine))
	}
	return nil
}
