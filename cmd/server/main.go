package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/melodia/admin-api/internal/api"
	"github.com/melodia/admin-api/internal/api/handler"
	"github.com/melodia/admin-api/internal/core/service"
	mongostore "github.com/melodia/admin-api/internal/infrastructure/db/mongo"
	redisstore "github.com/melodia/admin-api/internal/infrastructure/db/redis"
	"github.com/melodia/admin-api/internal/infrastructure/queue"
	"github.com/melodia/admin-api/internal/infrastructure/token"
	"github.com/melodia/admin-api/internal/pkg/config"
	"github.com/melodia/admin-api/pkg/logger"
)

const (
	serviceName     = "media-admin-api"
	shutdownTimeout = 15 * time.Second
)

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongostore.NewUserRepository(db)
	auditRepo := mongostore.NewAuditRepository(db)
	if err := mongostore.EnsureIndexes(ctx, users, auditRepo); err != nil {
		return err
	}

	issuerOpts := []token.Option{token.WithIssuerName(cfg.Auth.JWTIssuer)}
	if !cfg.Auth.JWTSecretNotAfter.IsZero() {
		issuerOpts = append(issuerOpts, token.WithKeyNotAfter(cfg.Auth.JWTSecretNotAfter))
	}
	issuer, err := token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, issuerOpts...)
	if err != nil {
		return err
	}

	dispatcher := queue.NewDispatcher(cfg.Audit.Workers,
		service.NewAuditService(auditRepo, logger.Component("audit")),
		logger.Component("dispatcher"))
	dispatcher.Start(ctx)

	authOpts := []service.AuthOption{
		service.WithBcryptCost(cfg.Auth.BcryptCost),
		service.WithAuditSink(dispatcher),
		service.WithLogger(logger.Component("auth")),
	}
	if cfg.ThrottleEnabled() {
		throttle := redisstore.NewLoginThrottle(rdb, cfg.Auth.LoginMaxFailures, cfg.Auth.LoginFailureWindow)
		authOpts = append(authOpts, service.WithLoginThrottle(throttle))
	}

	e := api.NewRouter(api.Dependencies{
		AuthService: service.NewAuthService(users, issuer, authOpts...),
		UserService: service.NewUserService(users, dispatcher),
		Tokens:      issuer,
		Checks: map[string]handler.CheckFunc{
			"mongo": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Log:                logger.Component("http"),
		LoginRatePerSecond: cfg.Auth.LoginRatePerSecond,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Dur("token_ttl", cfg.Auth.TokenTTL).
			Bool("login_throttle", cfg.ThrottleEnabled()).
			Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Workers return once ctx is cancelled; pending events are dropped.
	dispatcher.Wait()
	return nil
}
