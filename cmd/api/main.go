package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bluereserve/internal/app"
	"bluereserve/internal/config"
	"bluereserve/internal/database"
	"bluereserve/internal/events"
	"bluereserve/internal/pkg/lock"
	"bluereserve/internal/pkg/logger"
	"bluereserve/internal/pkg/mq"
	"bluereserve/internal/pkg/obs"
	"bluereserve/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, "bluereserve", cfg.Version, cfg.AppEnv, cfg.OTLPEndpoint)
	if err != nil {
		log.WithError(err).Fatal("init tracer")
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("migrate database")
	}

	var locker lock.Locker = lock.NewLocal()
	if cfg.RedisURL != "" {
		client, err := lock.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("connect redis")
		}
		defer client.Close()
		locker = lock.NewRedis(client, cfg.LockTTL)
		log.Info("using redis booking locks")
	}

	bus := events.NewBus(cfg.EventWorkers, cfg.EventBuffer, log)

	if cfg.RabbitURL != "" {
		pub, err := mq.NewPublisher(cfg.RabbitURL, cfg.BookingExchange)
		if err != nil {
			log.WithError(err).Fatal("connect rabbitmq")
		}
		defer pub.Close()
		bus.Subscribe("amqp", events.ForwardTo(pub))
		log.WithField("exchange", cfg.BookingExchange).Info("forwarding booking events to rabbitmq")
	}

	a := app.New(app.Options{
		DB:                 db,
		Log:                log,
		Locker:             locker,
		Bus:                bus,
		Version:            cfg.Version,
		Origins:            cfg.CORSAllowedOrigins,
		Production:         cfg.IsProduction(),
		CompletionInterval: cfg.CompletionInterval,
		CompletionBatch:    cfg.CompletionBatch,
	})
	stopSweeper := a.Sweeper.Start(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: a.Router,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	stopSweeper()
	bus.Close()
	a.Hub.Close()
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.WithError(err).Warn("tracer shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server exited")
}
