// Package main provides the API server entry point for the dashboard
// service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/brachiGH/firedns-dashboard/internal/analytics"
	"github.com/brachiGH/firedns-dashboard/internal/api"
	"github.com/brachiGH/firedns-dashboard/internal/config"
	"github.com/brachiGH/firedns-dashboard/internal/identity"
	"github.com/brachiGH/firedns-dashboard/internal/logging"
	"github.com/brachiGH/firedns-dashboard/internal/policy"
	"github.com/brachiGH/firedns-dashboard/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.GetGlobalLogger().WithError(err).Fatal("Failed to load configuration")
	}

	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	logger.Info("Connecting to databases...")

	postgres, err := storage.NewPostgresDB(&cfg.Database.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	redis, err := storage.NewRedisCache(&cfg.Database.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close() // nolint:errcheck // cleanup in defer

	logger.Info("Database connections established")

	catalog := policy.DefaultCatalog()

	userRepo := storage.NewUserRepository(postgres)
	settingsRepo := storage.NewSettingsRepository(postgres, catalog)
	domainListRepo := storage.NewDomainListRepository(postgres)
	linkedIPRepo := storage.NewLinkedIPRepository(postgres)
	queryLogRepo := storage.NewQueryLogRepository(postgres)

	cacheService := storage.NewCacheService(redis, cfg.Cache.TTL)

	identityService := identity.NewService(linkedIPRepo, logger)
	analyticsService := analytics.NewService(queryLogRepo)
	resolver := policy.NewResolver(catalog)

	serverConfig := &api.ServerConfig{
		Host:              cfg.Server.Host,
		Port:              cfg.Server.Port,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	}

	server := api.NewServer(serverConfig, api.ServerDeps{
		Settings:    settingsRepo,
		DomainLists: domainListRepo,
		Identity:    identityService,
		Analytics:   analyticsService,
		Users:       userRepo,
		QueryLogs:   queryLogRepo,
		Resolver:    resolver,
		Catalog:     catalog,
		Cache:       cacheService,
		Logger:      logger,
	})

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
