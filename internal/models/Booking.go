package models

import "time"

type BookingType string

const (
	BookingCar       BookingType = "car"
	BookingFlight    BookingType = "flight"
	BookingLogistics BookingType = "logistics"
)

var BookingTypes = []BookingType{BookingCar, BookingFlight, BookingLogistics}

func (t BookingType) IsValid() bool {
	for _, v := range BookingTypes {
		if t == v {
			return true
		}
	}
	return false
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingInTransit BookingStatus = "in_transit"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

var BookingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingInTransit, BookingCompleted, BookingCancelled}

func (s BookingStatus) IsValid() bool {
	for _, v := range BookingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal statuses admit no further transition.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// NextAllowed returns the statuses a booking in s may move to. Terminal
// statuses return an empty set.
func (s BookingStatus) NextAllowed() []BookingStatus {
	if s.IsTerminal() {
		return nil
	}
	next := make([]BookingStatus, 0, len(BookingStatuses)-1)
	for _, v := range BookingStatuses {
		if v != s {
			next = append(next, v)
		}
	}
	return next
}

// CanTransitionTo reports whether moving from s to next is legal. Assigning
// the current status again is always accepted as a no-op.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	for _, v := range s.NextAllowed() {
		if v == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Booking is owned by exactly one user. Status and PaymentStatus are
// independent axes: nothing links one to the other.
type Booking struct {
	Base
	BookingNumber string        `json:"bookingNumber" gorm:"uniqueIndex;not null"`
	Type          BookingType   `json:"type" gorm:"type:varchar(20);not null;index"`
	Status        BookingStatus `json:"status" gorm:"type:varchar(20);default:pending;not null;index"`
	PaymentStatus PaymentStatus `json:"paymentStatus" gorm:"type:varchar(20);default:pending;not null"`
	Amount        float64       `json:"amount" gorm:"type:decimal(10,2);not null"`
	Currency      string        `json:"currency,omitempty"`
	Notes         string        `json:"notes,omitempty" gorm:"type:text"`

	// car
	PickupLocation string     `json:"pickupLocation,omitempty"`
	Destination    string     `json:"destination,omitempty"`
	PickupDate     *time.Time `json:"pickupDate,omitempty"`
	PickupTime     string     `json:"pickupTime,omitempty"`
	VehicleType    string     `json:"vehicleType,omitempty"`
	Passengers     *int       `json:"passengers,omitempty"`
	DriverID       string     `json:"driverId,omitempty"`

	// flight
	DepartureAirport string     `json:"departureAirport,omitempty"`
	ArrivalAirport   string     `json:"arrivalAirport,omitempty"`
	DepartureDate    *time.Time `json:"departureDate,omitempty"`
	ReturnDate       *time.Time `json:"returnDate,omitempty"`
	Airline          string     `json:"airline,omitempty"`
	FlightNumber     string     `json:"flightNumber,omitempty"`

	// logistics
	ItemType       string     `json:"itemType,omitempty"`
	Weight         string     `json:"weight,omitempty"`
	Dimensions     string     `json:"dimensions,omitempty"`
	DeliveryDate   *time.Time `json:"deliveryDate,omitempty"`
	TrackingNumber string     `json:"trackingNumber,omitempty" gorm:"index"`

	// ExpiresAt is informational only; nothing expires bookings automatically.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`

	UserID string `json:"userId" gorm:"type:uuid;not null;index"`
	User   *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (b Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

func (b Booking) IsExpired(now time.Time) bool {
	return b.ExpiresAt != nil && now.After(*b.ExpiresAt)
}

// AwaitingRefund flags a cancelled booking that was already paid.
func (b Booking) AwaitingRefund() bool {
	return b.Status == BookingCancelled && b.PaymentStatus == PaymentPaid
}
