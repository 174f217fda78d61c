package routes

import (
	"github.com/gin-gonic/gin"

	"engraced_transport/internal/middleware"
	"engraced_transport/internal/models"
)

func AdminRoutes(r *gin.Engine, h *Handlers) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuth(h.JWT), middleware.RequireRoles(staff...))
	{
		admin.GET("/dashboard", h.Admin.Dashboard)
		admin.GET("/bookings", h.Bookings.List)
		admin.GET("/bookings/stats", h.Bookings.Stats)
		admin.GET("/users", middleware.RequireRoles(models.RoleAdmin), h.Users.List)
	}
}
