package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uventlo/event-platform/internal/api"
	"github.com/uventlo/event-platform/internal/core/service"
	"github.com/uventlo/event-platform/internal/infrastructure/config"
	mongodb "github.com/uventlo/event-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/uventlo/event-platform/internal/infrastructure/db/redis"
	"github.com/uventlo/event-platform/internal/infrastructure/email"
	"github.com/uventlo/event-platform/pkg/logger"

	_ "github.com/uventlo/event-platform/docs"
)

const shutdownTimeout = 10 * time.Second

// @title           Uventlo Event Platform API
// @version         1.0
// @description     REST backend for the Uventlo event-management platform.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "uventlo-api",
	})

	if cfg.Auth.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close")
		}
	}()

	accountRepo := mongodb.NewAccountRepository(db)
	eventRepo := mongodb.NewEventRepository(db)
	contactRepo := mongodb.NewContactRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"accounts": accountRepo.EnsureIndexes,
		"events":   eventRepo.EnsureIndexes,
		"contacts": contactRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("failed to ensure indexes")
		}
	}

	mailer := email.NewMailer(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	throttle := redisdb.NewSendThrottle(rdb, cfg.Auth.ThrottleWindow)

	// --- Core services ---
	tokens := service.NewTokenIssuer(service.TokenConfig{
		Secret:      cfg.Auth.JWTSecret,
		TokenTTL:    cfg.Auth.TokenTTL,
		RememberTTL: cfg.Auth.RememberTTL,
	})
	accounts := service.NewAccountService(accountRepo, mailer, tokens, throttle, cfg.Auth.BcryptCost, cfg.Auth.OTPTTL, log)
	events := service.NewEventService(eventRepo, accountRepo, log)
	contacts := service.NewContactService(contactRepo, accountRepo, log)

	e := api.NewRouter(api.Dependencies{
		Accounts: accounts,
		Events:   events,
		Contacts: contacts,
		Tokens:   tokens,
		Mongo:    db,
		Redis:    rdb,
		Log:      log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting api server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
