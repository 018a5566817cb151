package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/borgir/video-archive/docs"
	"github.com/borgir/video-archive/internal/api"
	"github.com/borgir/video-archive/internal/api/handler"
	"github.com/borgir/video-archive/internal/core/ports"
	"github.com/borgir/video-archive/internal/core/service"
	"github.com/borgir/video-archive/internal/infrastructure/db/mongo"
	"github.com/borgir/video-archive/internal/infrastructure/db/redis"
	"github.com/borgir/video-archive/internal/infrastructure/mail"
	"github.com/borgir/video-archive/internal/pkg/config"
	"github.com/borgir/video-archive/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "video-archive",
	})

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("disconnect mongodb")
		}
	}()

	userRepo := mongo.NewUserRepository(db, cfg.Mongo.Timeout)
	videoRepo := mongo.NewVideoRepository(db, cfg.Mongo.Timeout)
	if err := mongo.EnsureIndexes(ctx, userRepo, videoRepo); err != nil {
		log.Fatal().Err(err).Msg("create indexes")
	}

	checks := map[string]handler.CheckFunc{"mongodb": handler.MongoCheck(db)}

	// The provisioning lock is optional; the unique email index is enough
	// for correctness.
	var guard ports.ProvisioningGuard
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, provisioning lock disabled")
	} else {
		defer rdb.Close()
		guard = redis.NewProvisionLock(rdb)
		checks["redis"] = handler.RedisCheck(rdb)
	}

	// --- Core ---
	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens, err := service.NewJWTService(cfg.Auth.JWTSecret, service.DefaultTokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token service")
	}
	store := service.NewCredentialStore(userRepo, hasher)

	notifier := mail.NewNotifier(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		Timeout:  cfg.SMTP.Timeout,
	}, logger.Component("mail"))

	authService := service.NewAuthService(store, hasher, tokens, service.AdminCredentials{
		Username: cfg.Auth.AdminUsername,
		Password: cfg.Auth.AdminPassword,
	}, logger.Component("auth"))
	adminService := service.NewAdminService(store, notifier, guard, logger.Component("admin"))
	videoService := service.NewVideoService(videoRepo, logger.Component("videos"))

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Auth:         authService,
		Admin:        adminService,
		Videos:       videoService,
		Tokens:       tokens,
		HealthChecks: checks,
		CORSOrigins:  cfg.CORS.Origins,
		Log:          logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
}
