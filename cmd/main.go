package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Goniek94/BackendRespo-sub005/internal/app/registry"
	"github.com/Goniek94/BackendRespo-sub005/internal/app/server"
	"github.com/Goniek94/BackendRespo-sub005/internal/app/worker"
	"github.com/Goniek94/BackendRespo-sub005/internal/config"
	"github.com/Goniek94/BackendRespo-sub005/internal/core/contracts"
	"github.com/Goniek94/BackendRespo-sub005/internal/core/domain"
	"github.com/Goniek94/BackendRespo-sub005/internal/core/services"
	"github.com/Goniek94/BackendRespo-sub005/internal/platform/logger"
	"github.com/Goniek94/BackendRespo-sub005/internal/platform/telemetry"
	"github.com/Goniek94/BackendRespo-sub005/internal/plugins/postgres"
	redisPlugin "github.com/Goniek94/BackendRespo-sub005/internal/plugins/redis"
)

func main() {
	// Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Config
	cfg := config.Load()

	// Logger
	log := logger.NewLogger(*cfg)
	log.Info("starting realtime gateway")

	otelShutdown, err := telemetry.InitTelemetry(ctx, *cfg)
	if err != nil {
		log.Error("failed to initialize telemetry", "err", err)
	}
	defer func() {
		log.Info("flushing telemetry...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Error("telemetry shutdown failed", "err", err)
		}
	}()

	// Optional infra: the gateway serves connections without either, with
	// the mirror, store and ingest worker disabled.
	var mirror contracts.PresenceMirror
	var queue contracts.NotificationQueue
	if cfg.Redis.URL != "" {
		rdb, err := redisPlugin.NewRedisClient(ctx, *cfg.Redis)
		if err != nil {
			log.Error("redis connection failed", "url", cfg.Redis.URL, "err", err)
			return
		}
		log.Info("redis connected")
		mirror = redisPlugin.NewPresenceMirror(rdb)
		queue = redisPlugin.NewNotificationQueue(log, rdb)
	}
	var store domain.NotificationStore
	if cfg.Postgres.DSN != "" {
		pdb, err := postgres.New(ctx, *cfg.Postgres)
		if err != nil {
			log.Error("postgres connection failed", "err", err)
			return
		}
		log.Info("postgres connected")
		store = postgres.NewNotificationRepo(pdb)
	}

	// Core services
	hub := registry.NewRegistry(log)
	presence := services.NewPresenceTracker()
	window := services.NewSuppressionWindow(cfg.Realtime.SuppressionWindow, presence)
	dispatcher := services.NewDispatcher(log, window, hub, store)
	verifier := services.NewTokenVerifier(cfg.SecretToken)
	auth := services.NewHandshakeAuthenticator(log, verifier)
	manager := services.NewSessionManager(log, hub, presence, window, mirror, store)

	if queue != nil {
		wrkr := worker.NewNotificationWorker(log, queue, dispatcher, cfg.Worker.NotificationGroup)
		go func() {
			if err := wrkr.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error("notification worker stopped", "err", err)
			}
		}()
	}

	// Server
	srv := server.NewServer(log, cfg.Service.Name, cfg.Service.Addr, auth, manager, mirror, cfg.Realtime.SendBuffer)
	if err := srv.Start(); err != nil {
		log.Error("server stopped", "err", err)
	}
}
