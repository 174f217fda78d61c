package controllers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engraced_transport/internal/events"
	"engraced_transport/internal/middleware"
	"engraced_transport/internal/models"
)

func newSocketServer(t *testing.T) (*events.Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	savedWait, savedPeriod := pongWait, pingPeriod
	pongWait, pingPeriod = 150*time.Millisecond, 30*time.Millisecond

	hub := events.NewHub()
	jwt := middleware.NewJWT("socket-secret", time.Hour)
	router := gin.New()
	router.GET("/ws/bookings", NewBookingSocketController(hub, jwt).Subscribe)
	srv := httptest.NewServer(router)

	t.Cleanup(func() {
		srv.Close()
		pongWait, pingPeriod = savedWait, savedPeriod
	})

	user := &models.User{Base: models.Base{ID: "4b9e2c1a-0d7f-4a51-9b3e-6f0c8d2a1e77"}, Email: "rider@example.com", Role: models.RolePassenger}
	token, err := jwt.Issue(user)
	require.NoError(t, err)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/bookings?token=" + token
}

func TestSubscribePingsAndKeepsResponsiveClients(t *testing.T) {
	hub, url := newSocketServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	pings := make(chan struct{}, 16)
	conn.SetPingHandler(func(data string) error {
		select {
		case pings <- struct{}{}:
		default:
		}
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case <-pings:
	case <-time.After(2 * time.Second):
		t.Fatal("no ping received")
	}

	// Answering pings keeps the connection past several read deadlines.
	time.Sleep(4 * pongWait)
	assert.Equal(t, 1, hub.Clients())

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestSubscribeDropsSilentClients(t *testing.T) {
	hub, url := newSocketServer(t)

	// Never reading means pings are never answered.
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}
