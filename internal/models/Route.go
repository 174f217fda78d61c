package models

import "strings"

type RouteStatus string

const (
	RouteActive    RouteStatus = "active"
	RouteInactive  RouteStatus = "inactive"
	RouteSuspended RouteStatus = "suspended"
)

func (s RouteStatus) IsValid() bool {
	switch s {
	case RouteActive, RouteInactive, RouteSuspended:
		return true
	}
	return false
}

// Route is a scheduled path owned by exactly one vehicle.
// IsAvailable is independent of Status.
type Route struct {
	Base
	Name              string      `json:"name" gorm:"not null"`
	DepartureCity     string      `json:"departureCity" gorm:"not null;index:idx_route_cities"`
	ArrivalCity       string      `json:"arrivalCity" gorm:"not null;index:idx_route_cities"`
	Description       string      `json:"description,omitempty" gorm:"type:text"`
	Distance          *float64    `json:"distance,omitempty" gorm:"type:decimal(8,2)"`
	EstimatedDuration *int        `json:"estimatedDuration,omitempty"`
	DepartureTime     string      `json:"departureTime" gorm:"type:varchar(8);not null"`
	ArrivalTime       *string     `json:"arrivalTime,omitempty" gorm:"type:varchar(8)"`
	Price             float64     `json:"price" gorm:"type:decimal(10,2);not null"`
	Status            RouteStatus `json:"status" gorm:"type:varchar(20);default:active;not null"`
	Stops             StringList  `json:"stops"`
	Notes             string      `json:"notes,omitempty" gorm:"type:text"`
	IsAvailable       bool        `json:"isAvailable" gorm:"not null"`

	// Path of the route as WKB (LineString, SRID 4326). The API speaks GeoJSON.
	Geometry []byte `json:"-" gorm:"type:bytea"`

	VehicleID string   `json:"vehicleId" gorm:"type:uuid;not null;index"`
	Vehicle   *Vehicle `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
}

// IsClock accepts a 24h wall-clock time as HH:MM or HH:MM:SS.
func IsClock(s string) bool {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return false
	}
	limits := []int{23, 59, 59}
	for i, p := range parts {
		if len(p) != 2 || p[0] < '0' || p[0] > '9' || p[1] < '0' || p[1] > '9' {
			return false
		}
		if int(p[0]-'0')*10+int(p[1]-'0') > limits[i] {
			return false
		}
	}
	return true
}
