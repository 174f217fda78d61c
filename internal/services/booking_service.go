package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"engraced_transport/internal/cache"
	"engraced_transport/internal/events"
	"engraced_transport/internal/models"
	"engraced_transport/internal/repositories"
)

const bookingStatsKey = "bookings"

// CreateBookingInput carries the type-discriminated field bundles. Only the
// bundle matching Type is meaningful; the others are stored as given.
type CreateBookingInput struct {
	Type     models.BookingType
	Amount   float64
	Currency string
	Notes    string

	PickupLocation string
	Destination    string
	PickupDate     *time.Time
	PickupTime     string
	VehicleType    string
	Passengers     *int
	DriverID       string

	DepartureAirport string
	ArrivalAirport   string
	DepartureDate    *time.Time
	ReturnDate       *time.Time
	Airline          string
	FlightNumber     string

	ItemType     string
	Weight       string
	Dimensions   string
	DeliveryDate *time.Time
}

type BookingStats struct {
	Total        int64            `json:"total"`
	ByType       map[string]int64 `json:"byType"`
	ByStatus     map[string]int64 `json:"byStatus"`
	TotalRevenue float64          `json:"totalRevenue"`
}

type BookingService struct {
	bookings  repositories.BookingRepository
	publisher events.Publisher
	stats     cache.StatsCache
	strict    bool
	// writes counts booking writes; GetStats uses it to detect a write that
	// raced its computation.
	writes atomic.Uint64
}

type BookingOption func(*BookingService)

// WithPermissiveTransitions turns the status transition guard off: any
// status may follow any other.
func WithPermissiveTransitions() BookingOption {
	return func(s *BookingService) { s.strict = false }
}

func WithStatsCache(c cache.StatsCache) BookingOption {
	return func(s *BookingService) {
		if c != nil {
			s.stats = c
		}
	}
}

func NewBookingService(bookings repositories.BookingRepository, publisher events.Publisher, opts ...BookingOption) *BookingService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	s := &BookingService{
		bookings:  bookings,
		publisher: publisher,
		stats:     cache.Noop{},
		strict:    true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new pending, unpaid booking owned by ownerID. Identical
// bookings are not deduplicated.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput, ownerID string) (*models.Booking, error) {
	if !in.Type.IsValid() {
		return nil, BadRequest("type must be one of car, flight, logistics")
	}
	if err := checkMoney("amount", in.Amount); err != nil {
		return nil, err
	}
	if ownerID == "" {
		return nil, Unauthorized("booking owner is required")
	}

	booking := &models.Booking{
		BookingNumber: newReference("BK"),
		Type:          in.Type,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
		Amount:        roundCents(in.Amount),
		Currency:      in.Currency,
		Notes:         in.Notes,

		PickupLocation: in.PickupLocation,
		Destination:    in.Destination,
		PickupDate:     in.PickupDate,
		PickupTime:     in.PickupTime,
		VehicleType:    in.VehicleType,
		Passengers:     in.Passengers,
		DriverID:       in.DriverID,

		DepartureAirport: in.DepartureAirport,
		ArrivalAirport:   in.ArrivalAirport,
		DepartureDate:    in.DepartureDate,
		ReturnDate:       in.ReturnDate,
		Airline:          in.Airline,
		FlightNumber:     in.FlightNumber,

		ItemType:     in.ItemType,
		Weight:       in.Weight,
		Dimensions:   in.Dimensions,
		DeliveryDate: in.DeliveryDate,

		UserID: ownerID,
	}
	if in.Type == models.BookingLogistics {
		booking.TrackingNumber = newReference("TRK")
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"type":       booking.Type,
		"user_id":    ownerID,
	}).Info("Booking created")
	s.afterWrite(ctx, events.New(events.BookingCreated, booking.ID, ownerID, booking))
	return booking, nil
}

func (s *BookingService) FindAll(ctx context.Context) ([]models.Booking, error) {
	return s.bookings.FindAll(ctx)
}

func (s *BookingService) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFound("Booking not found")
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) FindByUser(ctx context.Context, ownerID string) ([]models.Booking, error) {
	return s.bookings.FindByUser(ctx, ownerID)
}

// UpdateStatus moves the booking to status. Completed and cancelled are
// terminal unless the service runs with permissive transitions.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	if !status.IsValid() {
		return nil, BadRequest("invalid booking status %q", status)
	}
	booking, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := booking.Status
	if s.strict && !previous.CanTransitionTo(status) {
		return nil, IllegalTransition("cannot move booking from %s to %s", previous, status)
	}

	booking.Status = status
	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"from":       previous,
		"to":         status,
	}).Info("Booking status updated")
	s.afterWrite(ctx, events.New(events.BookingStatusChanged, booking.ID, booking.UserID, map[string]interface{}{
		"from": previous,
		"to":   status,
	}))
	return booking, nil
}

// UpdatePaymentStatus overwrites the payment axis without consulting the
// booking status.
func (s *BookingService) UpdatePaymentStatus(ctx context.Context, id string, paymentStatus models.PaymentStatus) (*models.Booking, error) {
	if !paymentStatus.IsValid() {
		return nil, BadRequest("invalid payment status %q", paymentStatus)
	}
	booking, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := booking.PaymentStatus
	booking.PaymentStatus = paymentStatus
	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}

	fields := logrus.Fields{"booking_id": booking.ID, "from": previous, "to": paymentStatus}
	if booking.AwaitingRefund() {
		logrus.WithFields(fields).Warn("Cancelled booking is paid and awaits a refund")
	} else {
		logrus.WithFields(fields).Info("Booking payment status updated")
	}
	s.afterWrite(ctx, events.New(events.BookingPaymentStatusChanged, booking.ID, booking.UserID, map[string]interface{}{
		"from": previous,
		"to":   paymentStatus,
	}))
	return booking, nil
}

// GetStats counts bookings per type and status and sums every amount,
// cancelled and unpaid bookings included.
func (s *BookingService) GetStats(ctx context.Context) (*BookingStats, error) {
	generation := s.writes.Load()

	var cached BookingStats
	if err := s.stats.Get(ctx, bookingStatsKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		logrus.WithError(err).Warn("Booking stats cache read failed")
	}

	total, err := s.bookings.Count(ctx)
	if err != nil {
		return nil, err
	}
	byType, err := s.bookings.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.bookings.SumAmount(ctx)
	if err != nil {
		return nil, err
	}

	stats := &BookingStats{
		Total:        total,
		ByType:       make(map[string]int64, len(models.BookingTypes)),
		ByStatus:     make(map[string]int64, len(models.BookingStatuses)),
		TotalRevenue: roundCents(revenue),
	}
	for _, t := range models.BookingTypes {
		stats.ByType[string(t)] = byType[string(t)]
	}
	for _, st := range models.BookingStatuses {
		stats.ByStatus[string(st)] = byStatus[string(st)]
	}

	s.storeStats(ctx, generation, stats)
	return stats, nil
}

// storeStats caches stats computed at generation. A write that lands while
// they are stored makes them stale, so they are dropped again.
func (s *BookingService) storeStats(ctx context.Context, generation uint64, stats *BookingStats) {
	if s.writes.Load() != generation {
		return
	}
	if err := s.stats.Set(ctx, bookingStatsKey, stats); err != nil {
		logrus.WithError(err).Warn("Booking stats cache write failed")
		return
	}
	if s.writes.Load() != generation {
		if err := s.stats.Invalidate(ctx, bookingStatsKey); err != nil {
			logrus.WithError(err).Warn("Booking stats cache invalidation failed")
		}
	}
}

// afterWrite drops cached stats and announces the change. Neither step can
// fail the write that already happened.
func (s *BookingService) afterWrite(ctx context.Context, e events.Event) {
	s.writes.Add(1)
	if err := s.stats.Invalidate(ctx, bookingStatsKey); err != nil {
		logrus.WithError(err).Warn("Booking stats cache invalidation failed")
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		logrus.WithError(err).WithField("event", e.Type).Warn("Booking event publish failed")
	}
}

// newReference returns a short human-facing reference such as BK-1A2B3C4D5E.
func newReference(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(id[:10])
}
