package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/hellocms/blackforest/internal/backend"
	"github.com/hellocms/blackforest/internal/cart"
	"github.com/hellocms/blackforest/internal/config"
	"github.com/hellocms/blackforest/internal/handler"
	"github.com/hellocms/blackforest/internal/logger"
	"github.com/hellocms/blackforest/internal/router"
	"github.com/hellocms/blackforest/internal/terminal"
	"github.com/hellocms/blackforest/internal/ws"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logr, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.Development()})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logr.Sync()

	loc, err := cfg.Location()
	if err != nil {
		logr.Fatalw("invalid timezone", "error", err)
	}

	// The backend expects money as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, logr)

	var rdb backend.RedisClient
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logr.Fatalw("failed to parse redis url", "error", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			logr.Warnw("redis unreachable, catalog reads fall through to the backend", "error", err)
		} else {
			logr.Infow("redis catalog cache enabled", "ttl", cfg.CatalogCacheTTL)
		}
		cancel()
		rdb = client
	}
	catalogCache := backend.NewCatalogCache(rdb, cfg.CatalogCacheTTL)
	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)

	hub := ws.NewHub(logr)
	go hub.Run()

	registry := terminal.NewRegistry(cfg.SessionIdleTTL)
	go registry.Run(ctx, time.Minute)

	sessions := handler.NewSessionHandler(registry, func(token string) terminal.Backend {
		return catalogCache.Wrap(client.WithToken(token))
	}, handler.SessionOptions{
		Location: loc,
		Policy:   cart.Policy{RevalidateOnIncrement: cfg.RevalidateOnIncrement},
		Notifier: hub,
		Logger:   logr,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router.New(cfg, logr, hub, sessions),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logr.Errorw("shutdown failed", "error", err)
		}
	}()

	logr.Infow("starting server", "port", cfg.Port, "backend", cfg.BackendURL, "env", cfg.AppEnv)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logr.Fatalw("server failed", "error", err)
	}
	logr.Infow("server stopped")
}
