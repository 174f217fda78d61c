package routes

import (
	"github.com/gin-gonic/gin"

	"engraced_transport/internal/middleware"
)

func BookingRoutes(r *gin.Engine, h *Handlers) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.RequireAuth(h.JWT))
	{
		bookings.POST("", h.Bookings.Create)
		bookings.GET("/my-bookings", h.Bookings.MyBookings)
		bookings.GET("/:id", h.Bookings.Get)
	}

	admin := r.Group("/bookings")
	admin.Use(middleware.RequireAuth(h.JWT), middleware.RequireRoles(staff...))
	{
		admin.GET("", h.Bookings.List)
		admin.GET("/stats", h.Bookings.Stats)
		admin.PATCH("/:id/status", h.Bookings.UpdateStatus)
		admin.PATCH("/:id/payment-status", h.Bookings.UpdatePaymentStatus)
	}
}
