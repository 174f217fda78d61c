package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"engraced_transport/internal/models"
	"engraced_transport/internal/repositories"
)

type CreateTripInput struct {
	Origin               string
	Destination          string
	Type                 models.TripType
	DepartureTime        time.Time
	EstimatedArrivalTime time.Time
	Fare                 float64
	Notes                string
	VehicleID            string
}

// TripView is a trip with its seat figures computed at read time.
type TripView struct {
	models.Trip
	AvailableSeats      int     `json:"availableSeats"`
	IsFullyBooked       bool    `json:"isFullyBooked"`
	OccupancyPercentage float64 `json:"occupancyPercentage"`
	IsDelayed           bool    `json:"isDelayed"`
}

func NewTripView(t models.Trip) TripView {
	return TripView{
		Trip:                t,
		AvailableSeats:      t.AvailableSeats(),
		IsFullyBooked:       t.IsFullyBooked(),
		OccupancyPercentage: roundCents(t.OccupancyPercentage()),
		IsDelayed:           t.IsDelayed(),
	}
}

type TripService struct {
	trips    repositories.TripRepository
	vehicles repositories.VehicleRepository
}

func NewTripService(trips repositories.TripRepository, vehicles repositories.VehicleRepository) *TripService {
	return &TripService{trips: trips, vehicles: vehicles}
}

func (s *TripService) CreateTrip(ctx context.Context, in CreateTripInput) (*TripView, error) {
	if strings.TrimSpace(in.Origin) == "" || strings.TrimSpace(in.Destination) == "" {
		return nil, BadRequest("origin and destination are required")
	}
	if in.Type == "" {
		in.Type = models.TripInterState
	}
	if !in.Type.IsValid() {
		return nil, BadRequest("invalid trip type %q", in.Type)
	}
	if in.DepartureTime.IsZero() || in.EstimatedArrivalTime.IsZero() {
		return nil, BadRequest("departureTime and estimatedArrivalTime are required")
	}
	if in.EstimatedArrivalTime.Before(in.DepartureTime) {
		return nil, BadRequest("estimatedArrivalTime cannot be before departureTime")
	}
	if err := checkMoney("fare", in.Fare); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.FindByID(ctx, in.VehicleID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFound("Vehicle not found")
	}
	if err != nil {
		return nil, err
	}

	trip := &models.Trip{
		TripNumber:           newReference("TRP"),
		Origin:               strings.TrimSpace(in.Origin),
		Destination:          strings.TrimSpace(in.Destination),
		Type:                 in.Type,
		Status:               models.TripScheduled,
		DepartureTime:        in.DepartureTime,
		EstimatedArrivalTime: in.EstimatedArrivalTime,
		Fare:                 roundCents(in.Fare),
		Notes:                in.Notes,
		VehicleID:            vehicle.ID,
	}
	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}
	trip.Vehicle = vehicle

	logrus.WithFields(logrus.Fields{"trip_id": trip.ID, "vehicle_id": vehicle.ID}).Info("Trip scheduled")
	view := NewTripView(*trip)
	return &view, nil
}

func (s *TripService) FindAllTrips(ctx context.Context) ([]TripView, error) {
	trips, err := s.trips.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]TripView, 0, len(trips))
	for _, t := range trips {
		views = append(views, NewTripView(t))
	}
	return views, nil
}

func (s *TripService) FindTripByID(ctx context.Context, id string) (*TripView, error) {
	trip, err := s.findTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewTripView(*trip)
	return &view, nil
}

func (s *TripService) UpdateTripStatus(ctx context.Context, id string, status models.TripStatus) (*TripView, error) {
	if !status.IsValid() {
		return nil, BadRequest("invalid trip status %q", status)
	}
	return s.update(ctx, id, func(t *models.Trip) error {
		if status == models.TripCompleted && t.ActualArrivalTime == nil {
			now := time.Now()
			t.ActualArrivalTime = &now
		}
		t.Status = status
		return nil
	})
}

// RecordDeparture stores the actual departure time; a trip that left late
// reads as delayed from then on.
func (s *TripService) RecordDeparture(ctx context.Context, id string, at time.Time) (*TripView, error) {
	if at.IsZero() {
		return nil, BadRequest("actual departure time is required")
	}
	return s.update(ctx, id, func(t *models.Trip) error {
		t.ActualDepartureTime = &at
		if t.Status == models.TripScheduled || t.Status == models.TripDelayed {
			t.Status = models.TripInProgress
		}
		return nil
	})
}

// AdjustBookedSeats adds delta (which may be negative) to the booked seat
// count, keeping it within the vehicle's capacity.
func (s *TripService) AdjustBookedSeats(ctx context.Context, id string, delta int) (*TripView, error) {
	return s.update(ctx, id, func(t *models.Trip) error {
		seats := t.BookedSeats + delta
		if seats < 0 {
			return BadRequest("booked seats cannot be negative")
		}
		if t.Vehicle != nil && seats > t.Vehicle.Capacity {
			return BadRequest("only %d seats left on this trip", t.AvailableSeats())
		}
		t.BookedSeats = seats
		return nil
	})
}

func (s *TripService) update(ctx context.Context, id string, mutate func(*models.Trip) error) (*TripView, error) {
	trip, err := s.findTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(trip); err != nil {
		return nil, err
	}
	if err := s.trips.Save(ctx, trip); err != nil {
		return nil, fmt.Errorf("update trip: %w", err)
	}
	logrus.WithFields(logrus.Fields{"trip_id": trip.ID, "status": trip.Status, "booked_seats": trip.BookedSeats}).Info("Trip updated")
	view := NewTripView(*trip)
	return &view, nil
}

func (s *TripService) findTrip(ctx context.Context, id string) (*models.Trip, error) {
	trip, err := s.trips.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFound("Trip not found")
	}
	return trip, err
}
