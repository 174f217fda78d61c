package routes

import (
	"github.com/gin-gonic/gin"

	"engraced_transport/internal/middleware"
)

func TripRoutes(r *gin.Engine, h *Handlers) {
	trips := r.Group("/trips")
	trips.Use(middleware.RequireAuth(h.JWT))
	{
		trips.GET("", h.Trips.List)
		trips.GET("/:id", h.Trips.Get)
	}

	manage := r.Group("/trips")
	manage.Use(middleware.RequireAuth(h.JWT), middleware.RequireRoles(staff...))
	{
		manage.POST("", h.Trips.Create)
		manage.PATCH("/:id/status", h.Trips.UpdateStatus)
		manage.PATCH("/:id/seats", h.Trips.AdjustSeats)
		manage.PATCH("/:id/departure", h.Trips.RecordDeparture)
	}
}
