package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"engraced_transport/internal/middleware"
	"engraced_transport/internal/services"
)

type AdminController struct {
	users    *services.UserService
	bookings *services.BookingService
	fleet    *services.FleetService
}

func NewAdminController(users *services.UserService, bookings *services.BookingService, fleet *services.FleetService) *AdminController {
	return &AdminController{users: users, bookings: bookings, fleet: fleet}
}

// Dashboard aggregates user, booking and fleet figures for the back office.
func (ctl *AdminController) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	userStats, err := ctl.users.GetStats(ctx)
	if err != nil {
		respondError(c, err, "Dashboard")
		return
	}
	bookingStats, err := ctl.bookings.GetStats(ctx)
	if err != nil {
		respondError(c, err, "Dashboard")
		return
	}
	fleetStats, err := ctl.fleet.GetFleetStats(ctx)
	if err != nil {
		respondError(c, err, "Dashboard")
		return
	}

	userID, role := middleware.CurrentUser(c)
	admin, err := ctl.users.FindByID(ctx, userID)
	if err != nil {
		respondError(c, err, "Dashboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     userStats,
		"bookings": bookingStats,
		"fleet":    fleetStats,
		"admin": gin.H{
			"name": admin.FullName(),
			"role": role,
		},
	})
}
