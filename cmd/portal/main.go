package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/bt-group/leave-portal/internal/api"
	"github.com/bt-group/leave-portal/internal/api/metrics"
	"github.com/bt-group/leave-portal/internal/core/service"
	"github.com/bt-group/leave-portal/internal/core/session"
	"github.com/bt-group/leave-portal/internal/infrastructure/backend"
	"github.com/bt-group/leave-portal/internal/infrastructure/config"
	"github.com/bt-group/leave-portal/internal/infrastructure/db/mongo"
	"github.com/bt-group/leave-portal/internal/infrastructure/db/redis"
	"github.com/bt-group/leave-portal/internal/infrastructure/queue"
	"github.com/bt-group/leave-portal/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.LogLevel, cfg.Env == "development")

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongo")
	}

	workerCtx, stopWorkers := context.WithCancel(ctx)
	auditWriter := queue.NewAuditWriter(mongo.NewAuditRepository(db), log)
	auditWriter.Start(workerCtx)

	manager := session.NewManager(redis.Factory(rdb, cfg.Session.TTL), cfg.Session.TTL, log)
	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, log)
	client.OnRequest(func(path, status string) {
		metrics.UpstreamRequestsTotal.WithLabelValues(path, status).Inc()
	})
	gateway := service.NewAuthGateway(client, auditWriter, log)

	e := api.NewRouter(api.Deps{
		Manager:      manager,
		Gateway:      gateway,
		Backend:      client,
		SubmitGuard:  redis.NewSubmitGuard(rdb),
		Redis:        rdb,
		Mongo:        db,
		CookieName:   cfg.Session.CookieName,
		SecureCookie: cfg.Session.Secure,
		Log:          log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("backend", cfg.BackendURL).Msg("leave portal started")

	waitForShutdown(log, e, stopWorkers, rdb, mongoClient)
}

func waitForShutdown(log zerolog.Logger, e *echo.Echo, stopWorkers context.CancelFunc, rdb *goredis.Client, mongoClient *gomongo.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	stopWorkers()

	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close error")
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect error")
	}

	log.Info().Msg("portal exited cleanly")
}
