package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// StaffScope receives every booking event; any other scope is a user ID
// and receives events for that user's bookings only.
const StaffScope = "staff"

const writeWait = 10 * time.Second

// Hub keeps the dashboard sockets and pushes booking events to them.
type Hub struct {
	clients   map[string]map[*websocket.Conn]bool
	broadcast chan Event
	mu        sync.Mutex
}

func NewHub() *Hub {
	hub := &Hub{
		clients:   make(map[string]map[*websocket.Conn]bool),
		broadcast: make(chan Event, 100),
	}
	go hub.run()
	return hub
}

// run is the only writer on registered connections.
func (h *Hub) run() {
	for e := range h.broadcast {
		for _, conn := range h.recipients(e) {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e); err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"event":    e.Type,
					"conn_ptr": fmt.Sprintf("%p", conn),
				}).Info("Dropping dashboard socket after failed write.")
				h.drop(conn)
			}
		}
	}
}

func (h *Hub) recipients(e Event) []*websocket.Conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*websocket.Conn
	for conn := range h.clients[StaffScope] {
		out = append(out, conn)
	}
	if e.UserID != "" && e.UserID != StaffScope {
		for conn := range h.clients[e.UserID] {
			out = append(out, conn)
		}
	}
	return out
}

func (h *Hub) Register(scope string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[scope]; !ok {
		h.clients[scope] = make(map[*websocket.Conn]bool)
	}
	h.clients[scope][conn] = true
	logrus.WithFields(logrus.Fields{
		"scope":    scope,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Client registered with booking hub.")
}

func (h *Hub) Unregister(scope string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[scope]; ok {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(h.clients, scope)
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	for scope, clients := range h.clients {
		if clients[conn] {
			delete(clients, conn)
			if len(clients) == 0 {
				delete(h.clients, scope)
			}
		}
	}
	h.mu.Unlock()
	conn.Close()
}

// Clients counts registered connections across all scopes.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

// Publish queues booking events for delivery and never blocks; when the
// queue is full the event is dropped.
func (h *Hub) Publish(_ context.Context, e Event) error {
	if !e.IsBooking() {
		return nil
	}
	select {
	case h.broadcast <- e:
	default:
		logrus.WithField("event", e.Type).Warn("Booking hub queue full, dropping event.")
	}
	return nil
}
