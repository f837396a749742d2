package app

import (
	"context"
	"time"

	"bluereserve/internal/database"
	"bluereserve/internal/events"
	"bluereserve/internal/middleware"
	"bluereserve/internal/modules/booking"
	"bluereserve/internal/modules/health"
	"bluereserve/internal/modules/history"
	"bluereserve/internal/modules/resource"
	"bluereserve/internal/modules/stream"
	"bluereserve/internal/modules/user"
	"bluereserve/internal/pkg/lock"
	"bluereserve/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Options struct {
	DB         *gorm.DB
	Log        logrus.FieldLogger
	Locker     lock.Locker
	Bus        *events.Bus
	Version    string
	Origins    []string
	Production bool

	CompletionInterval time.Duration
	CompletionBatch    int
}

// App is the wired HTTP surface plus the pieces main needs to start and
// stop.
type App struct {
	Router   *gin.Engine
	Bookings *booking.Service
	Sweeper  *booking.Sweeper
	Hub      *stream.Hub
}

// New builds repositories, services and routes, and subscribes the history
// recorder and the websocket hub to the bus.
func New(opts Options) *App {
	userRepo := repository.NewUserRepository(opts.DB)
	resourceRepo := repository.NewResourceRepository(opts.DB)
	bookingRepo := repository.NewBookingRepository(opts.DB)
	historyRepo := repository.NewHistoryRepository(opts.DB)

	hub := stream.NewHub(opts.Log)
	opts.Bus.Subscribe("history", history.NewRecorder(historyRepo, opts.Log).Handle)
	opts.Bus.Subscribe("websocket", hub.Handle)

	bookingService := booking.NewService(bookingRepo, userRepo, resourceRepo, opts.Locker, opts.Bus, opts.Log)
	sweeper := booking.NewSweeper(bookingService, booking.SweeperConfig{
		Interval:  opts.CompletionInterval,
		BatchSize: opts.CompletionBatch,
	}, opts.Log)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger(opts.Log))
	r.Use(middleware.CORS(opts.Origins, opts.Production))

	health.NewHandler(func(ctx context.Context) error {
		return database.Ping(ctx, opts.DB)
	}, opts.Version).RegisterRoutes(r)
	stream.NewHandler(hub, nil).RegisterRoutes(r)

	v1 := r.Group("/api/v1")
	{
		booking.NewHandler(bookingService).RegisterRoutes(v1)
		resource.NewHandler(resource.NewService(resourceRepo, opts.Log)).RegisterRoutes(v1)
		user.NewHandler(user.NewService(userRepo, opts.Log)).RegisterRoutes(v1)
		history.NewHandler(history.NewService(historyRepo)).RegisterRoutes(v1)
	}

	return &App{Router: r, Bookings: bookingService, Sweeper: sweeper, Hub: hub}
}
