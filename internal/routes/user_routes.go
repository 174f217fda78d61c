package routes

import (
	"github.com/gin-gonic/gin"

	"engraced_transport/internal/middleware"
	"engraced_transport/internal/models"
)

func UserRoutes(r *gin.Engine, h *Handlers) {
	self := r.Group("/users")
	self.Use(middleware.RequireAuth(h.JWT))
	{
		self.GET("/profile", h.Users.Profile)
		self.PATCH("/profile", h.Users.UpdateProfile)
	}

	staffOnly := r.Group("/users")
	staffOnly.Use(middleware.RequireAuth(h.JWT), middleware.RequireRoles(staff...))
	{
		staffOnly.GET("", h.Users.List)
		staffOnly.GET("/role/:role", h.Users.ByRole)
		staffOnly.GET("/:id", h.Users.Get)
	}

	adminOnly := r.Group("/users")
	adminOnly.Use(middleware.RequireAuth(h.JWT), middleware.RequireRoles(models.RoleAdmin))
	{
		adminOnly.GET("/stats", h.Users.Stats)
		adminOnly.PATCH("/:id/activate", h.Users.Activate)
		adminOnly.PATCH("/:id/deactivate", h.Users.Deactivate)
		adminOnly.PATCH("/:id/suspend", h.Users.Suspend)
	}
}
