package routes

import (
	"github.com/gin-gonic/gin"
)

// WebSocketRoutes authenticates with ?token= inside the handler since the
// browser handshake carries no Authorization header.
func WebSocketRoutes(r *gin.Engine, h *Handlers) {
	ws := r.Group("/ws")
	{
		ws.GET("/bookings", h.Sockets.Subscribe)
	}
}
