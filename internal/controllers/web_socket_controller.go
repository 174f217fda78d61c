package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"engraced_transport/internal/events"
	"engraced_transport/internal/middleware"
	"engraced_transport/internal/models"
)

// upgrader configures the WebSocket connection. Origins are checked by the
// CORS layer in front of the router.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Keepalive timing. A client silent for longer than pongWait is dropped;
// pings go out every pingPeriod so a live client always answers in time.
var (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	writeWait  = 10 * time.Second
)

type BookingSocketController struct {
	hub *events.Hub
	jwt *middleware.JWT
}

func NewBookingSocketController(hub *events.Hub, jwt *middleware.JWT) *BookingSocketController {
	return &BookingSocketController{hub: hub, jwt: jwt}
}

// Subscribe streams booking events over a websocket. Staff see every
// booking; other users only their own. Browsers cannot set headers on the
// handshake, so the token travels as ?token=.
func (ctl *BookingSocketController) Subscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		logrus.Warn("WebSocket connection attempt: Missing token query parameter.")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication token"})
		return
	}
	claims, err := ctl.jwt.Parse(token)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket connection attempt with invalid token.")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	scope := claims.Subject
	if models.IsStaffRole(claims.Role) {
		scope = events.StaffScope
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	ctl.hub.Register(scope, conn)
	defer ctl.hub.Unregister(scope, conn)

	fields := logrus.Fields{
		"user_id":  claims.Subject,
		"scope":    scope,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}
	logrus.WithFields(fields).Info("Booking WebSocket connection established.")

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go keepAlive(conn, done, fields)

	// Clients only listen; reading detects the close and runs the pong handler.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithFields(fields).Info("Booking WebSocket closed.")
			} else {
				logrus.WithError(err).WithFields(fields).Warn("Error reading booking WebSocket message.")
			}
			return
		}
	}
}

// keepAlive pings conn until done closes. WriteControl may run alongside the
// hub's event writes.
func keepAlive(conn *websocket.Conn, done <-chan struct{}, fields logrus.Fields) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				logrus.WithError(err).WithFields(fields).Debug("Booking WebSocket ping failed.")
				conn.Close()
				return
			}
		}
	}
}
