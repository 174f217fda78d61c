// Package events fans booking and account events out to the live dashboard
// socket hub and, when configured, to a message broker.
package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	BookingCreated              = "booking.created"
	BookingStatusChanged        = "booking.status_changed"
	BookingPaymentStatusChanged = "booking.payment_status_changed"
	PasswordResetRequested      = "account.password_reset_requested"
)

type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	BookingID  string      `json:"bookingId,omitempty"`
	UserID     string      `json:"userId,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
}

func New(eventType, bookingID, userID string, data interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		BookingID:  bookingID,
		UserID:     userID,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

// IsBooking reports whether the event concerns a booking and may be shown
// on dashboards. Account events carry secrets and never are.
func (e Event) IsBooking() bool {
	return strings.HasPrefix(e.Type, "booking.")
}

// Topic groups event types into broker topics.
func (e Event) Topic() string {
	family, _, _ := strings.Cut(e.Type, ".")
	return family + ".events"
}

// Key keeps events of one aggregate on one partition.
func (e Event) Key() string {
	if e.BookingID != "" {
		return e.BookingID
	}
	return e.UserID
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi delivers to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
