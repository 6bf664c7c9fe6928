package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"eventplanner-collab/internal/cache"
	"eventplanner-collab/internal/collaborator"
	"eventplanner-collab/internal/lib/logger/sl"
	"eventplanner-collab/internal/metrics"
	"eventplanner-collab/internal/notify"
	"eventplanner-collab/internal/store"
	"eventplanner-collab/internal/suggestion"
	"eventplanner-collab/internal/vendor"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

func main() {
	cfg := MustLoadConfig()

	log := setupLogger(cfg.Env)
	log.Info("starting application", slog.String("env", cfg.Env))

	db, err := InitDB(log, cfg.DB)
	if err != nil {
		log.Error("failed to init database", sl.Err(err))
		os.Exit(1)
	}

	m := metrics.New()
	gw := store.New(db)
	composer := notify.Composer{From: cfg.MailFrom}

	var suggestionCache suggestion.Cache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		c := cache.NewSuggestionCache(rdb, cfg.Redis.TTL)
		defer c.Close()
		suggestionCache = c
		log.Info("suggestion cache enabled", slog.String("addr", cfg.Redis.Addr))
	}
	ranker := suggestion.New(log, gw, suggestionCache)

	var dispatcher notify.Dispatcher = notify.NewLogDispatcher(log)
	if len(cfg.Kafka.Brokers) > 0 {
		kd := notify.NewKafkaDispatcher(cfg.Kafka.Brokers, cfg.Kafka.MailTopic)
		defer kd.Close()
		dispatcher = kd
		log.Info("mail transport enabled", slog.String("topic", cfg.Kafka.MailTopic))
	}
	relay := notify.NewRelay(log, gw, dispatcher, notify.RelayConfig{
		Batch:       cfg.Outbox.Batch,
		Interval:    cfg.Outbox.Interval,
		MaxAttempts: cfg.Outbox.MaxAttempts,
	}, notify.WithObserver(m))

	handlers := NewHandlers(
		collaborator.New(log, gw, composer),
		vendor.New(log, gw, ranker, composer),
		ranker,
	)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(Recovery(log), RequestLogger(log, m), CORSMiddleware())
	SetupRoutes(r, handlers, cfg.JWTSecret, m)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		relay.Run(ctx)
	}()

	go func() {
		log.Info("server running", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", sl.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("stopping application")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down server", sl.Err(err))
	}
	<-relayDone

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("application stopped")
}

func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return logger
}
