package events

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPublisher struct{ err error }

func (p failingPublisher) Publish(context.Context, Event) error { return p.err }

type countingPublisher struct{ n int }

func (p *countingPublisher) Publish(context.Context, Event) error {
	p.n++
	return nil
}

func TestEventRouting(t *testing.T) {
	e := New(BookingStatusChanged, "b-1", "u-1", nil)
	assert.True(t, e.IsBooking())
	assert.Equal(t, "booking.events", e.Topic())
	assert.Equal(t, "b-1", e.Key())
	assert.NotEmpty(t, e.ID)

	reset := New(PasswordResetRequested, "", "u-1", nil)
	assert.False(t, reset.IsBooking())
	assert.Equal(t, "account.events", reset.Topic())
	assert.Equal(t, "u-1", reset.Key())
}

func TestMultiDeliversToAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("broker down")
	counter := &countingPublisher{}

	err := Multi{failingPublisher{boom}, nil, counter, Discard{}}.Publish(context.Background(), New(BookingCreated, "b", "u", nil))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, counter.n)

	assert.NoError(t, Multi{counter}.Publish(context.Background(), New(BookingCreated, "b", "u", nil)))
}

func dialHub(t *testing.T, hub *Hub, scope string) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(scope, conn)
		defer hub.Unregister(scope, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) (Event, error) {
	t.Helper()
	var e Event
	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	err := conn.ReadJSON(&e)
	return e, err
}

func TestHubScopesBookingEvents(t *testing.T) {
	hub := NewHub()
	staff := dialHub(t, hub, StaffScope)
	owner := dialHub(t, hub, "user-1")
	stranger := dialHub(t, hub, "user-2")
	require.Eventually(t, func() bool { return hub.Clients() == 3 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), New(BookingCreated, "booking-1", "user-1", nil)))

	got, err := readEvent(t, staff)
	require.NoError(t, err)
	assert.Equal(t, BookingCreated, got.Type)

	got, err = readEvent(t, owner)
	require.NoError(t, err)
	assert.Equal(t, "booking-1", got.BookingID)

	_, err = readEvent(t, stranger)
	assert.Error(t, err, "other users must not see the event")
}

func TestHubIgnoresAccountEvents(t *testing.T) {
	hub := NewHub()
	staff := dialHub(t, hub, StaffScope)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), New(PasswordResetRequested, "", "user-1", map[string]string{"token": "secret"})))

	_, err := readEvent(t, staff)
	assert.Error(t, err)
}
