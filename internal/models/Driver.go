package models

import (
	"strings"
	"time"
)

type DriverStatus string

const (
	DriverActive    DriverStatus = "active"
	DriverInactive  DriverStatus = "inactive"
	DriverOnDuty    DriverStatus = "on_duty"
	DriverOffDuty   DriverStatus = "off_duty"
	DriverSuspended DriverStatus = "suspended"
)

func (s DriverStatus) IsValid() bool {
	switch s {
	case DriverActive, DriverInactive, DriverOnDuty, DriverOffDuty, DriverSuspended:
		return true
	}
	return false
}

const MaxDriverRating = 5.0

type Driver struct {
	Base
	FirstName         string       `json:"firstName" gorm:"not null"`
	LastName          string       `json:"lastName" gorm:"not null"`
	Email             string       `json:"email" gorm:"uniqueIndex;not null"`
	Phone             string       `json:"phone" gorm:"not null"`
	LicenseNumber     string       `json:"licenseNumber,omitempty"`
	LicenseExpiry     *time.Time   `json:"licenseExpiry,omitempty"`
	Status            DriverStatus `json:"status" gorm:"type:varchar(20);default:active;not null"`
	Rating            float64      `json:"rating" gorm:"type:decimal(3,2);default:0"`
	TotalTrips        int          `json:"totalTrips"`
	YearsOfExperience int          `json:"yearsOfExperience"`
	Address           string       `json:"address,omitempty" gorm:"type:text"`
	DateOfBirth       *time.Time   `json:"dateOfBirth,omitempty" gorm:"type:date"`
	EmergencyContact  string       `json:"emergencyContact,omitempty" gorm:"type:text"`
	Notes             string       `json:"notes,omitempty" gorm:"type:text"`
	ProfileImage      string       `json:"profileImage,omitempty" gorm:"type:text"`

	Vehicles []Vehicle `json:"vehicles,omitempty" gorm:"foreignKey:DriverID"`
}

func (d Driver) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}
