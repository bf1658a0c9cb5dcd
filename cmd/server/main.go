package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"modpocket/internal/app"
	"modpocket/internal/config"
	"modpocket/internal/logging"
	"modpocket/internal/nusmods"
	"modpocket/internal/wallpaper"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	var rdb *redis.Client
	var cache nusmods.ModuleCache
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to parse redis url")
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		cache = nusmods.NewRedisCache(rdb, cfg.CacheTTL)
		logger.Info().Dur("ttl", cfg.CacheTTL).Msg("module cache enabled")
	}

	nm := nusmods.NewClient(cfg.NusmodsAPIURL, cache, logger)

	generator, err := wallpaper.NewImagenGenerator(
		context.Background(), cfg.GeminiAPIKey, cfg.ImagenModels, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create image generator")
	}

	handler := app.NewHandler(nm, generator, logger)
	limiter := app.NewRateLimiter(rdb, app.DefaultRateLimitConfig(), logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           app.NewRouter(handler, limiter, logger),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		logger.Info().Str("addr", cfg.ListenAddr()).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
}
