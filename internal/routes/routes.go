package routes

import (
	"io"
	"os"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"

	"engraced_transport/internal/controllers"
	"engraced_transport/internal/middleware"
	"engraced_transport/internal/models"
	"engraced_transport/internal/validators"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	JWT      *middleware.JWT
	Health   *controllers.HealthController
	Auth     *controllers.AuthController
	Bookings *controllers.BookingController
	Fleet    *controllers.FleetController
	Users    *controllers.UserController
	Admin    *controllers.AdminController
	Trips    *controllers.TripController
	Sockets  *controllers.BookingSocketController
	// AccessLog receives the HTTP access log; stdout when nil.
	AccessLog io.Writer
}

var staff = []models.UserRole{models.RoleAdmin, models.RoleManager}

func SetupRouter(h *Handlers) *gin.Engine {
	if err := validators.RegisterWithGin(); err != nil {
		logrus.WithError(err).Fatal("Failed to register request validators")
	}

	accessLog := h.AccessLog
	if accessLog == nil {
		accessLog = os.Stdout
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger(
		ginlog.WithUTC(true),
		ginlog.WithSkipPath([]string{"/health"}),
		ginlog.WithWriter(accessLog),
		ginlog.WithClientErrorLevel(zerolog.WarnLevel),
		ginlog.WithServerErrorLevel(zerolog.ErrorLevel),
	))

	r.GET("/", h.Health.Welcome)
	r.GET("/health", h.Health.Health)

	AuthRoutes(r, h)
	BookingRoutes(r, h)
	VehicleRoutes(r, h)
	UserRoutes(r, h)
	AdminRoutes(r, h)
	TripRoutes(r, h)
	WebSocketRoutes(r, h)

	return r
}
