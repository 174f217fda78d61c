package models

import "time"

type TripType string

const (
	TripInterState      TripType = "inter_state"
	TripIntraState      TripType = "intra_state"
	TripAirportTransfer TripType = "airport_transfer"
	TripCharter         TripType = "charter"
)

func (t TripType) IsValid() bool {
	switch t {
	case TripInterState, TripIntraState, TripAirportTransfer, TripCharter:
		return true
	}
	return false
}

type TripStatus string

const (
	TripScheduled  TripStatus = "scheduled"
	TripInProgress TripStatus = "in_progress"
	TripCompleted  TripStatus = "completed"
	TripCancelled  TripStatus = "cancelled"
	TripDelayed    TripStatus = "delayed"
)

func (s TripStatus) IsValid() bool {
	switch s {
	case TripScheduled, TripInProgress, TripCompleted, TripCancelled, TripDelayed:
		return true
	}
	return false
}

// Trip is a scheduled run of a vehicle. Seat figures are derived from
// BookedSeats and the vehicle's capacity at read time, never stored.
type Trip struct {
	Base
	TripNumber           string     `json:"tripNumber" gorm:"uniqueIndex;not null"`
	Origin               string     `json:"origin" gorm:"size:100;not null"`
	Destination          string     `json:"destination" gorm:"size:100;not null"`
	Type                 TripType   `json:"type" gorm:"type:varchar(30);default:inter_state;not null"`
	Status               TripStatus `json:"status" gorm:"type:varchar(20);default:scheduled;not null"`
	DepartureTime        time.Time  `json:"departureTime" gorm:"not null"`
	EstimatedArrivalTime time.Time  `json:"estimatedArrivalTime" gorm:"not null"`
	ActualDepartureTime  *time.Time `json:"actualDepartureTime,omitempty"`
	ActualArrivalTime    *time.Time `json:"actualArrivalTime,omitempty"`
	Fare                 float64    `json:"fare" gorm:"type:decimal(10,2);not null"`
	BookedSeats          int        `json:"bookedSeats"`
	Notes                string     `json:"notes,omitempty" gorm:"type:text"`

	VehicleID string   `json:"vehicleId" gorm:"type:uuid;not null;index"`
	Vehicle   *Vehicle `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
}

func (t Trip) capacity() int {
	if t.Vehicle == nil {
		return 0
	}
	return t.Vehicle.Capacity
}

func (t Trip) AvailableSeats() int {
	if seats := t.capacity() - t.BookedSeats; seats > 0 {
		return seats
	}
	return 0
}

func (t Trip) IsFullyBooked() bool {
	return t.BookedSeats >= t.capacity()
}

func (t Trip) OccupancyPercentage() float64 {
	c := t.capacity()
	if c == 0 {
		return 0
	}
	return float64(t.BookedSeats) / float64(c) * 100
}

// IsDelayed is true only once the trip actually left later than planned.
func (t Trip) IsDelayed() bool {
	return t.ActualDepartureTime != nil && t.ActualDepartureTime.After(t.DepartureTime)
}
