package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dearecho/dearecho-api/internal/api"
	"github.com/dearecho/dearecho-api/internal/core/ports"
	"github.com/dearecho/dearecho-api/internal/core/service"
	"github.com/dearecho/dearecho-api/internal/core/session"
	"github.com/dearecho/dearecho-api/internal/infrastructure/db/mongo"
	"github.com/dearecho/dearecho-api/internal/infrastructure/db/redis"
	"github.com/dearecho/dearecho-api/internal/infrastructure/gateway"
	"github.com/dearecho/dearecho-api/internal/pkg/config"
	"github.com/dearecho/dearecho-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Backends ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	accounts := mongo.NewAccountRepository(db)
	if err := accounts.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("account index creation failed")
	}

	// --- Credential gateway ---
	gw := gateway.New(
		accounts,
		redis.NewSessionRecordStore(rdb),
		redis.NewAttemptLimiter(rdb, cfg.Auth.MaxLoginAttempts),
		gateway.Config{
			ProjectID:      cfg.Gateway.ProjectID,
			InstallationID: cfg.Gateway.InstallationID,
			SessionSecret:  cfg.Gateway.SessionSecret,
			ProviderSecret: cfg.Gateway.ProviderSecret,
			SessionTTL:     cfg.Gateway.SessionTTL,
		},
		log,
	)

	// --- Session store + auth flows ---
	store := session.NewStore(gw, log)
	store.Start()
	defer store.Close()

	provider := ports.FederatedProviderConfig{
		Name:     cfg.Gateway.ProviderName,
		Issuer:   cfg.Gateway.ProviderIssuer,
		Audience: cfg.Gateway.ProviderAud,
	}
	flows := service.NewAuthService(
		gw,
		mongo.NewProfileRepository(db),
		store,
		provider,
		cfg.Auth.StrictLoginPolicy,
		log,
	)

	// Rehydrate the persisted session after the store subscribed, so the
	// initializing state resolves exactly once.
	gw.Start(ctx)

	e := api.NewRouter(db, rdb, store, flows, redis.NewPreferenceStore(rdb), cfg.Gateway.InstallationID, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("dearecho api listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
