// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"busline/internal/bookings"
	"busline/internal/notifications"
	"busline/internal/payments"
	"busline/internal/reclaimer"
	"busline/internal/schedules"
	"busline/internal/seats"
	"busline/internal/shared/config"
	"busline/internal/shared/database"
	"busline/pkg/cache"
	"busline/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	logger   *logger.Logger
	producer notifications.Producer

	cacheService     cache.Service
	seatService      seats.Service
	seatRepo         seats.Repository
	reclaimerService reclaimer.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, log *logger.Logger, producer notifications.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		logger:   log,
		producer: producer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.cacheService = cache.NewService(r.db.GetRedisClient())

	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Seats first: the seat service feeds schedules, bookings and the
		// reclaimer.
		r.setupSeatRoutes(api)
		r.setupScheduleRoutes(api)
		r.setupBookingRoutes(api)
		r.setupPaymentRoutes(api)
		r.setupReclaimerRoutes(api)
	}
}

// ReclaimerService exposes the sweep service for the background job runner.
func (r *Router) ReclaimerService() reclaimer.Service {
	return r.reclaimerService
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "busline-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "busline-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (r *Router) setupSeatRoutes(rg *gin.RouterGroup) {
	r.seatRepo = seats.NewRepository(r.db.GetPostgreSQL())
	r.seatService = seats.NewService(r.seatRepo, r.cacheService, r.logger)
	seatController := seats.NewController(r.seatService)

	seats.SetupSeatRoutes(rg, seatController)
}

func (r *Router) setupScheduleRoutes(rg *gin.RouterGroup) {
	scheduleRepo := schedules.NewRepository(r.db.GetPostgreSQL())
	scheduleService := schedules.NewService(scheduleRepo, r.seatService)
	scheduleController := schedules.NewController(scheduleService)

	schedules.SetupScheduleRoutes(rg, scheduleController)
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	seatAdapter := seats.NewBookingServiceAdapter(r.seatRepo, r.seatService)
	eventAdapter := notifications.NewBookingEventAdapter(r.producer)
	bookingService := bookings.NewService(bookingRepo, seatAdapter, eventAdapter, r.logger)
	bookingController := bookings.NewController(bookingService)

	bookings.SetupBookingRoutes(rg, bookingController)
}

func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	paymentRepo := payments.NewRepository(r.db.GetPostgreSQL())
	gateway := payments.NewSimulatedGateway(r.config.Payment.GatewaySuccessRate)
	eventAdapter := notifications.NewPaymentEventAdapter(r.producer)
	paymentService := payments.NewService(paymentRepo, gateway, r.seatService, eventAdapter, r.logger)
	paymentController := payments.NewController(paymentService)

	payments.SetupPaymentRoutes(rg, paymentController)
}

func (r *Router) setupReclaimerRoutes(rg *gin.RouterGroup) {
	reclaimerRepo := reclaimer.NewRepository(r.db.GetPostgreSQL())
	eventAdapter := notifications.NewBookingEventAdapter(r.producer)
	r.reclaimerService = reclaimer.NewService(reclaimerRepo, r.seatService, eventAdapter, reclaimer.Config{
		SeatLockTTL: r.config.Booking.SeatLockTTL,
		BookingTTL:  r.config.Booking.BookingTTL,
	}, r.logger)
	reclaimerController := reclaimer.NewController(r.reclaimerService)

	reclaimer.SetupReclaimerRoutes(rg, reclaimerController)
}
