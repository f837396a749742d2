package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"bluereserve/internal/domain"

	"github.com/sirupsen/logrus"
)

type SweeperConfig struct {
	Interval  time.Duration // how often to look for ended bookings
	BatchSize int           // max bookings completed per run
}

// Sweeper completes confirmed bookings once their end time has passed.
type Sweeper struct {
	service *Service
	config  SweeperConfig
	log     logrus.FieldLogger
}

func NewSweeper(service *Service, config SweeperConfig, log logrus.FieldLogger) *Sweeper {
	return &Sweeper{service: service, config: config, log: log}
}

// RunOnce completes up to BatchSize ended bookings and reports how many
// were completed. A booking that changed under us is skipped, not failed.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	start := time.Now()

	ended, err := s.service.bookings.FindConfirmedEndedBefore(ctx, s.service.now(), s.config.BatchSize)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, b := range ended {
		if _, err := s.service.CompleteBooking(ctx, b.ID.String()); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				continue
			}
			s.log.WithField("booking_id", b.ID).WithError(err).Warn("complete booking failed")
			continue
		}
		done++
	}

	if done > 0 {
		s.log.WithFields(logrus.Fields{
			"completed": done,
			"duration":  time.Since(start).String(),
		}).Info("completion sweep finished")
	}
	return done, nil
}

// Start runs RunOnce every Interval until ctx is done or stop is called.
// stop blocks until an in-flight run has returned.
func (s *Sweeper) Start(ctx context.Context) (stop func()) {
	stopCh := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.config.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := s.RunOnce(ctx); err != nil {
					s.log.WithError(err).Error("completion sweep failed")
				}
			case <-stopCh:
				s.log.Info("completion sweeper stopped")
				return
			case <-ctx.Done():
				s.log.Info("completion sweeper stopped (context done)")
				return
			}
		}
	}()

	s.log.WithField("interval", s.config.Interval.String()).Info("completion sweeper started")

	var once sync.Once
	return func() {
		once.Do(func() { close(stopCh) })
		<-done
	}
}
