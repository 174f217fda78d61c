package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"engraced_transport/internal/cache"
	"engraced_transport/internal/config"
	"engraced_transport/internal/controllers"
	"engraced_transport/internal/events"
	"engraced_transport/internal/logger"
	"engraced_transport/internal/middleware"
	"engraced_transport/internal/repositories"
	"engraced_transport/internal/routes"
	"engraced_transport/internal/services"
)

func main() {
	cfg := config.Load()

	logger.Setup(logger.Options{File: cfg.Log.File, Level: cfg.Log.Level, Format: cfg.Log.Format})
	gin.SetMode(cfg.App.GinMode)

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	logrus.Info("Database connection established.")

	ctx := context.Background()

	stats := cache.StatsCache(cache.Noop{})
	if cfg.Redis.Addr != "" {
		redisCache, rdb, err := cache.NewRedisStatsCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.StatsTTL)
		if err != nil {
			logrus.WithError(err).Warn("Redis unavailable, booking stats will not be cached")
		} else {
			defer rdb.Close()
			stats = redisCache
			logrus.WithField("addr", cfg.Redis.Addr).Info("Booking stats cache enabled.")
		}
	}

	hub := events.NewHub()
	publisher, closeBroker := setupBroker(cfg.Events, hub)
	defer closeBroker()

	jwt := middleware.NewJWT(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	userRepo := repositories.NewUserRepository(db)
	vehicleRepo := repositories.NewVehicleRepository(db)

	bookingOpts := []services.BookingOption{services.WithStatsCache(stats)}
	if !cfg.Booking.StrictTransitions {
		logrus.Warn("Booking status transitions are not enforced (BOOKING_STRICT_TRANSITIONS=false)")
		bookingOpts = append(bookingOpts, services.WithPermissiveTransitions())
	}

	authService := services.NewAuthService(userRepo, jwt, publisher)
	userService := services.NewUserService(userRepo)
	bookingService := services.NewBookingService(repositories.NewBookingRepository(db), publisher, bookingOpts...)
	fleetService := services.NewFleetService(vehicleRepo, repositories.NewRouteRepository(db), repositories.NewDriverRepository(db))
	tripService := services.NewTripService(repositories.NewTripRepository(db), vehicleRepo)

	if err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Phone); err != nil {
		logrus.WithError(err).Error("Failed to create admin user")
	}

	r := routes.SetupRouter(&routes.Handlers{
		JWT:       jwt,
		Health:    controllers.NewHealthController(db),
		Auth:      controllers.NewAuthController(authService, userService),
		Bookings:  controllers.NewBookingController(bookingService),
		Fleet:     controllers.NewFleetController(fleetService),
		Users:     controllers.NewUserController(userService),
		Admin:     controllers.NewAdminController(userService, bookingService, fleetService),
		Trips:     controllers.NewTripController(tripService),
		Sockets:   controllers.NewBookingSocketController(hub, jwt),
		AccessLog: logger.Writer(),
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.App.Port,
		Handler:           middleware.EnableCORS(cfg.App.CORSOrigins, r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("Server running at :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shut down")
	}
}

// setupBroker returns the event fan-out: the websocket hub plus the
// configured broker, if any.
func setupBroker(cfg config.EventsConfig, hub *events.Hub) (events.Publisher, func()) {
	switch cfg.Broker {
	case "rabbitmq":
		rabbit, err := events.NewRabbitPublisher(cfg.RabbitMQURL)
		if err != nil {
			logrus.WithError(err).Warn("RabbitMQ unavailable, events stay in-process")
			return hub, func() {}
		}
		logrus.Info("Publishing events to RabbitMQ.")
		return events.Multi{hub, rabbit}, func() { rabbit.Close() }
	case "kafka":
		kafka := events.NewKafkaPublisher(cfg.KafkaBrokers)
		logrus.WithField("brokers", cfg.KafkaBrokers).Info("Publishing events to Kafka.")
		return events.Multi{hub, kafka}, func() { kafka.Close() }
	case "", "none":
		return hub, func() {}
	default:
		logrus.WithField("broker", cfg.Broker).Warn("Unknown EVENTS_BROKER, events stay in-process")
		return hub, func() {}
	}
}
