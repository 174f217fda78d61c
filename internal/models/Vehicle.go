package models

type VehicleType string

const (
	VehicleSienna          VehicleType = "sienna"
	VehicleSiennaExecutive VehicleType = "sienna_executive"
	VehicleSiennaVIP       VehicleType = "sienna_vip"
)

func (t VehicleType) IsValid() bool {
	switch t {
	case VehicleSienna, VehicleSiennaExecutive, VehicleSiennaVIP:
		return true
	}
	return false
}

type VehicleStatus string

const (
	VehicleActive       VehicleStatus = "active"
	VehicleInactive     VehicleStatus = "inactive"
	VehicleMaintenance  VehicleStatus = "maintenance"
	VehicleOutOfService VehicleStatus = "out_of_service"
)

func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleActive, VehicleInactive, VehicleMaintenance, VehicleOutOfService:
		return true
	}
	return false
}

const (
	MinVehicleCapacity = 1
	MaxVehicleCapacity = 20
)

// Vehicle is a physical asset. DriverID is a weak reference: deleting a
// driver leaves the vehicle in place with no driver.
type Vehicle struct {
	Base
	Name           string        `json:"name" gorm:"not null"`
	Description    string        `json:"description"`
	Type           VehicleType   `json:"type" gorm:"type:varchar(30);default:sienna;not null"`
	Status         VehicleStatus `json:"status" gorm:"type:varchar(30);default:active;not null;index"`
	Capacity       int           `json:"capacity" gorm:"not null"`
	PricePerTrip   float64       `json:"pricePerTrip" gorm:"type:decimal(10,2);not null"`
	Features       StringList    `json:"features"`
	Images         StringList    `json:"images"`
	PlateNumber    string        `json:"plateNumber,omitempty"`
	Year           int           `json:"year,omitempty"`
	Color          string        `json:"color,omitempty"`
	Specifications string        `json:"specifications,omitempty" gorm:"type:text"`
	IsAvailable    bool          `json:"isAvailable" gorm:"not null;index"`
	Rating         float64       `json:"rating" gorm:"type:decimal(5,2)"`
	TotalTrips     int           `json:"totalTrips"`

	DriverID *string `json:"driverId,omitempty" gorm:"type:uuid;index"`
	Driver   *Driver `json:"driver,omitempty" gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`

	Routes []Route `json:"routes,omitempty" gorm:"foreignKey:VehicleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// IsBookable requires both independent flags to hold.
func (v Vehicle) IsBookable() bool {
	return v.IsAvailable && v.Status == VehicleActive
}
