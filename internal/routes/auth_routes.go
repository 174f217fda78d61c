package routes

import (
	"github.com/gin-gonic/gin"

	"engraced_transport/internal/middleware"
)

func AuthRoutes(r *gin.Engine, h *Handlers) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}

	authed := r.Group("/auth")
	authed.Use(middleware.RequireAuth(h.JWT))
	{
		authed.POST("/change-password", h.Auth.ChangePassword)
		authed.GET("/profile", h.Auth.Profile)
	}
}
