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
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/peerpicks/peerpicks-api/config"
	"github.com/peerpicks/peerpicks-api/internal/container"
	pginfra "github.com/peerpicks/peerpicks-api/internal/infrastructure/postgres"
	"github.com/peerpicks/peerpicks-api/internal/interface/middleware"
	"github.com/peerpicks/peerpicks-api/internal/router"
	"github.com/peerpicks/peerpicks-api/internal/webgate"
	"github.com/peerpicks/peerpicks-api/pkg/helpers"
	"github.com/peerpicks/peerpicks-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Postgres pool
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	// Run migrations using database/sql with pgx stdlib
	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil && !errors.Is(migrate.ErrNoChange, err) {
		log.Fatalf("migration failed: %v", err)
	}

	// Redis (rate limiting, stats cache)
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// GCS for profile pictures; optional in local setups
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)
	}

	// Elasticsearch mirror for the admin search box; optional
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		esClient, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; admin search disabled")
		} else {
			container.SetES(esClient)
		}
	}

	// RabbitMQ publisher for outbound email jobs; optional
	if cfg.MailSendEnabled && cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; reset emails will not be sent")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	// JWT
	jwtManager := helpers.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL, cfg.ResetTTL)

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetRedis(rdb)
	container.SetJWT(jwtManager)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	// Serve the client bundle behind the page gate when configured
	if cfg.WebDistDir != "" {
		r.NoRoute(webgate.Handler(cfg.WebDistDir))
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(http.ErrServerClosed, err) {
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
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
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
	if errors.Is(migrate.ErrNoChange, err) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
