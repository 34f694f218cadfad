package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"learnwords/catalog"
	"learnwords/config"
	"learnwords/db"
	"learnwords/internal/ratelimit"
	"learnwords/logger"
	"learnwords/routes"
	"learnwords/services"
	"learnwords/utils"
	"learnwords/websocket"
)

func main() {
	configPath := flag.String("config", "./config/config.yml", "Path to config file")
	flag.Parse()

	// Load the configuration from the specified YAML file
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	if err := logger.Init(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File, Debug: cfg.Log.Debug}); err != nil {
		logger.Fatal("failed to initialize logger", "error", err)
	}

	words, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal("failed to load word catalog", "path", cfg.Catalog.Path, "error", err)
	}
	logger.Info("word catalog loaded", "path", cfg.Catalog.Path, "days", words.Len())

	ctx := context.Background()
	store, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open store", "driver", cfg.Database.Driver, "error", err)
	}
	logger.Info("store ready", "driver", cfg.Database.Driver)

	hub := websocket.NewProgressHub()
	deps := routes.Dependencies{
		Progress:       services.NewProgressService(store, words, hub),
		Tokens:         utils.NewTokenManager(cfg.JWT.Secret, cfg.TokenExpiry()),
		Hub:            hub,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}

	// Rate limiting is optional; without Redis every mark is accepted
	if cfg.Redis.Addr != "" {
		rdb, err := ratelimit.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("redis unavailable, rate limiting disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			defer rdb.Close()
			deps.MarkLimiter = ratelimit.NewRedisLimiter(rdb, "mark", cfg.RateLimit.MarkPerMinute, time.Minute)
			logger.Info("rate limiting enabled", "addr", cfg.Redis.Addr, "markPerMinute", cfg.RateLimit.MarkPerMinute)
		}
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           routes.SetupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error("store close failed", "error", err)
	}
}
