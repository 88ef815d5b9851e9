package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/user-registration/config"
	"github.com/oksasatya/user-registration/internal/application"
	"github.com/oksasatya/user-registration/internal/container"
	"github.com/oksasatya/user-registration/internal/infrastructure/emailworker"
	pginfra "github.com/oksasatya/user-registration/internal/infrastructure/postgres"
	"github.com/oksasatya/user-registration/internal/interface/middleware"
	"github.com/oksasatya/user-registration/internal/observability/metrics"
	"github.com/oksasatya/user-registration/internal/router"
	"github.com/oksasatya/user-registration/pkg/helpers"
	"github.com/oksasatya/user-registration/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Initialize Postgres pool
	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	// Run migrations using database/sql with pgx stdlib
	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// Redis (rate limiting); limiter fails open when it is down
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		logger.WithError(err).Warn("redis unavailable, rate limiting disabled until it recovers")
	}

	// GCS only when email assets come from a bucket
	var gcsClient *storage.Client
	if cfg.EmailAssetsGCSBucket != "" {
		gcsClient, err = helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
	}

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("failed to init elasticsearch client: %v", err)
	}
	if err := helpers.PingES(ctx, es); err != nil {
		logger.WithError(err).Warn("elasticsearch unreachable, user search will fail until it recovers")
	}

	dispatcher, stopDispatch, err := newDispatcher(cfg, gcsClient, logger)
	if err != nil {
		log.Fatalf("failed to init email dispatch: %v", err)
	}

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetRedis(rdb)
	container.SetES(es)
	container.SetDispatcher(dispatcher)

	// Gin engine and global middleware
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies()); err != nil {
		log.Fatalf("invalid TRUSTED_PROXIES: %v", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP(cfg.TrustedProxies()...))
	if cfg.DebugMetricsEnabled {
		r.Use(metrics.Middleware())
	}
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.AccessLog(logger))

	reg := router.NewRegistry(r)
	if err := router.InitModules(reg); err != nil {
		log.Fatalf("failed to init modules: %v", err)
	}
	reg.RegisterAll()
	logger.WithField("routes", reg.Routes()).Debug("routes mounted")

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	// drain queued verification emails after the last request is done
	if err := stopDispatch(ctxShutdown); err != nil {
		logger.WithError(err).Warn("email queue not fully drained")
	}
	logger.Info("server exited properly")
}

// newDispatcher selects the email dispatch mode: an in-process worker pool or
// the RabbitMQ queue drained by cmd/email_worker. The returned func stops it.
func newDispatcher(cfg *config.Config, gcs *storage.Client, logger *logrus.Logger) (application.EmailDispatcher, func(context.Context) error, error) {
	switch strings.ToLower(cfg.EmailDispatch) {
	case "rabbitmq":
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			return nil, nil, fmt.Errorf("rabbitmq: %w", err)
		}
		logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("verification emails go through rabbitmq")
		return emailworker.NewQueueDispatcher(pub), func(context.Context) error {
			pub.Close()
			return nil
		}, nil
	case "", "worker":
		sender, err := emailworker.NewTransport(cfg)
		if err != nil {
			if cfg.MailSendEnabled {
				return nil, nil, err
			}
			logger.WithError(err).Warn("mail transport not configured; sending is disabled anyway")
		}
		proc := emailworker.NewProcessor(cfg, sender, emailworker.NewAssetSource(cfg, gcs), logger)
		p := emailworker.NewPool(proc, cfg.EmailWorkers, cfg.EmailQueueSize, logger)
		p.Start()
		logger.WithField("workers", cfg.EmailWorkers).Info("verification emails go through in-process workers")
		return p, p.Shutdown, nil
	default:
		return nil, nil, fmt.Errorf("unknown EMAIL_DISPATCH %q", cfg.EmailDispatch)
	}
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
