// Command complete_bookings runs a single completion sweep and exits, for
// deployments that schedule it externally instead of in the API process.
package main

import (
	"context"

	"bluereserve/internal/app"
	"bluereserve/internal/config"
	"bluereserve/internal/database"
	"bluereserve/internal/events"
	"bluereserve/internal/pkg/lock"
	"bluereserve/internal/pkg/logger"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}

	// Synchronous delivery so history rows are written before exit.
	bus := events.NewBus(0, 0, log)
	a := app.New(app.Options{
		DB:                 db,
		Log:                log,
		Locker:             lock.NewLocal(),
		Bus:                bus,
		Version:            cfg.Version,
		CompletionInterval: cfg.CompletionInterval,
		CompletionBatch:    cfg.CompletionBatch,
	})

	n, err := a.Sweeper.RunOnce(context.Background())
	if err != nil {
		log.WithError(err).Fatal("completion sweep failed")
	}
	log.WithField("completed", n).Info("booking completion finished")
}
