package routes

import (
	"github.com/gin-gonic/gin"

	"engraced_transport/internal/middleware"
)

// VehicleRoutes serves the fleet: vehicles, their routes and drivers. Reads
// are public, writes are staff only.
func VehicleRoutes(r *gin.Engine, h *Handlers) {
	public := r.Group("/vehicles")
	{
		public.GET("", h.Fleet.ListVehicles)
		public.GET("/available", h.Fleet.AvailableVehicles)
		public.GET("/routes", h.Fleet.ListRoutes)
		public.GET("/routes/search", h.Fleet.SearchRoutes)
		public.GET("/routes/:id", h.Fleet.GetRoute)
		public.GET("/drivers", h.Fleet.ListDrivers)
		public.GET("/drivers/:id", h.Fleet.GetDriver)
		public.GET("/:id", h.Fleet.GetVehicle)
	}

	manage := r.Group("/vehicles")
	manage.Use(middleware.RequireAuth(h.JWT), middleware.RequireRoles(staff...))
	{
		manage.GET("/stats", h.Fleet.Stats)

		manage.POST("", h.Fleet.CreateVehicle)
		manage.PATCH("/:id", h.Fleet.UpdateVehicle)
		manage.DELETE("/:id", h.Fleet.DeleteVehicle)

		manage.POST("/routes", h.Fleet.CreateRoute)
		manage.PATCH("/routes/:id", h.Fleet.UpdateRoute)
		manage.DELETE("/routes/:id", h.Fleet.DeleteRoute)

		manage.POST("/drivers", h.Fleet.CreateDriver)
		manage.PATCH("/drivers/:id", h.Fleet.UpdateDriver)
		manage.DELETE("/drivers/:id", h.Fleet.DeleteDriver)
	}
}
