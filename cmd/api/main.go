package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/auth"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/config"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/db"
	httpx "github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/http"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/notifications"
	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	// tracing
	tracerShutdown, err := observability.InitTracer(context.Background(), "gestion-pagos", cfg.OtelEndpoint)

	if err != nil {
		log.Warn("tracer init failed, continuing without traces", "err", err)
		tracerShutdown = func(context.Context) error { return nil }
	}

	// database pool + schema
	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db pool init failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	migrateCtx, cancelMigrate := config.WithTimeout(30 * time.Second)
	defer cancelMigrate()

	if err := db.RunMigrations(migrateCtx, cfg.DBURL); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	if err := db.EnsureSuperUser(migrateCtx, pool, cfg); err != nil {
		log.Error("super user seed failed", "err", err)
		os.Exit(1)
	}

	// metrics
	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	// broadcast channel; bridged through redis when configured
	hub := notifications.NewHub(log)

	var broadcaster notifications.Broadcaster = hub

	bridgeCtx, cancelBridge := context.WithCancel(context.Background())
	defer cancelBridge()

	if cfg.RedisAddr != "" {
		bridge := notifications.NewRedisBridge(hub, notifications.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, log)

		pingCtx, cancelPing := config.WithTimeout(2 * time.Second)
		err = bridge.Ping(pingCtx)
		cancelPing()

		if err != nil {
			log.Warn("redis unreachable, broadcasts stay in-process", "err", err)
		} else {
			broadcaster = bridge
			go bridge.Run(bridgeCtx)
			defer bridge.Close()
		}
	}

	// set up routers
	router := httpx.NewRouter(httpx.RouterDeps{
		Cfg:         cfg,
		Log:         log,
		Pool:        pool,
		Prom:        prom,
		Metrics:     registry,
		JWT:         auth.NewManager(cfg.JWTSecret, cfg.AccessTTL),
		Hub:         hub,
		Broadcaster: broadcaster,
	})

	// server set up; no WriteTimeout, /api/admin/stream holds its
	// connection open
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}

		_ = tracerShutdown(ctx)
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
