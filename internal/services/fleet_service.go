package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"engraced_transport/internal/models"
	"engraced_transport/internal/repositories"
)

// VehicleInput is used for both create and partial update; nil fields are
// left untouched on update.
type VehicleInput struct {
	Name           *string
	Description    *string
	Type           *models.VehicleType
	Status         *models.VehicleStatus
	Capacity       *int
	PricePerTrip   *float64
	Features       []string
	Images         []string
	PlateNumber    *string
	Year           *int
	Color          *string
	Specifications *string
	IsAvailable    *bool
	Rating         *float64
	DriverID       *string
}

type RouteInput struct {
	Name              *string
	DepartureCity     *string
	ArrivalCity       *string
	Description       *string
	Distance          *float64
	EstimatedDuration *int
	DepartureTime     *string
	ArrivalTime       *string
	Price             *float64
	Status            *models.RouteStatus
	Stops             []string
	Notes             *string
	IsAvailable       *bool
	VehicleID         *string
	// GeoJSON LineString; an empty string clears it.
	Geometry *string
}

type DriverInput struct {
	FirstName         *string
	LastName          *string
	Email             *string
	Phone             *string
	LicenseNumber     *string
	LicenseExpiry     *time.Time
	Status            *models.DriverStatus
	Rating            *float64
	YearsOfExperience *int
	Address           *string
	DateOfBirth       *time.Time
	EmergencyContact  *string
	Notes             *string
	ProfileImage      *string
}

type FleetStats struct {
	TotalVehicles  int64 `json:"totalVehicles"`
	ActiveVehicles int64 `json:"activeVehicles"`
	TotalRoutes    int64 `json:"totalRoutes"`
	TotalDrivers   int64 `json:"totalDrivers"`
}

type FleetService struct {
	vehicles repositories.VehicleRepository
	routes   repositories.RouteRepository
	drivers  repositories.DriverRepository
}

func NewFleetService(vehicles repositories.VehicleRepository, routes repositories.RouteRepository, drivers repositories.DriverRepository) *FleetService {
	return &FleetService{vehicles: vehicles, routes: routes, drivers: drivers}
}

// Vehicles

func (s *FleetService) CreateVehicle(ctx context.Context, in VehicleInput) (*models.Vehicle, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, BadRequest("name is required")
	}
	if in.Capacity == nil {
		return nil, BadRequest("capacity is required")
	}
	if in.PricePerTrip == nil {
		return nil, BadRequest("pricePerTrip is required")
	}

	vehicle := &models.Vehicle{
		Type:        models.VehicleSienna,
		Status:      models.VehicleActive,
		IsAvailable: true,
	}
	if err := s.applyVehicle(ctx, vehicle, in); err != nil {
		return nil, err
	}
	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	logrus.WithFields(logrus.Fields{"vehicle_id": vehicle.ID, "type": vehicle.Type}).Info("Vehicle created")
	return s.FindVehicleByID(ctx, vehicle.ID)
}

func (s *FleetService) FindAllVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return s.vehicles.FindAll(ctx)
}

func (s *FleetService) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	vehicle, err := s.vehicles.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFound("Vehicle not found")
	}
	return vehicle, err
}

// FindAvailableVehicles returns vehicles that are both flagged available
// and in active status.
func (s *FleetService) FindAvailableVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return s.vehicles.FindAvailable(ctx)
}

func (s *FleetService) UpdateVehicle(ctx context.Context, id string, in VehicleInput) (*models.Vehicle, error) {
	vehicle, err := s.FindVehicleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyVehicle(ctx, vehicle, in); err != nil {
		return nil, err
	}
	vehicle.Driver = nil
	if err := s.vehicles.Save(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	logrus.WithField("vehicle_id", vehicle.ID).Info("Vehicle updated")
	return s.FindVehicleByID(ctx, vehicle.ID)
}

// DeleteVehicle removes the vehicle together with its routes.
func (s *FleetService) DeleteVehicle(ctx context.Context, id string) error {
	vehicle, err := s.FindVehicleByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.vehicles.Delete(ctx, vehicle); err != nil {
		if errors.Is(err, repositories.ErrInUse) {
			return Conflict("Vehicle is still referenced by scheduled trips")
		}
		return fmt.Errorf("delete vehicle: %w", err)
	}
	logrus.WithField("vehicle_id", id).Info("Vehicle deleted")
	return nil
}

func (s *FleetService) applyVehicle(ctx context.Context, v *models.Vehicle, in VehicleInput) error {
	if in.Name != nil {
		v.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		v.Description = *in.Description
	}
	if in.Type != nil {
		if !in.Type.IsValid() {
			return BadRequest("invalid vehicle type %q", *in.Type)
		}
		v.Type = *in.Type
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return BadRequest("invalid vehicle status %q", *in.Status)
		}
		v.Status = *in.Status
	}
	if in.Capacity != nil {
		if *in.Capacity < models.MinVehicleCapacity || *in.Capacity > models.MaxVehicleCapacity {
			return BadRequest("capacity must be between %d and %d", models.MinVehicleCapacity, models.MaxVehicleCapacity)
		}
		v.Capacity = *in.Capacity
	}
	if in.PricePerTrip != nil {
		if err := checkMoney("pricePerTrip", *in.PricePerTrip); err != nil {
			return err
		}
		v.PricePerTrip = roundCents(*in.PricePerTrip)
	}
	if in.Features != nil {
		v.Features = in.Features
	}
	if in.Images != nil {
		v.Images = in.Images
	}
	if in.PlateNumber != nil {
		v.PlateNumber = *in.PlateNumber
	}
	if in.Year != nil {
		v.Year = *in.Year
	}
	if in.Color != nil {
		v.Color = *in.Color
	}
	if in.Specifications != nil {
		v.Specifications = *in.Specifications
	}
	if in.IsAvailable != nil {
		v.IsAvailable = *in.IsAvailable
	}
	if in.Rating != nil {
		if *in.Rating < 0 || *in.Rating > models.MaxDriverRating {
			return BadRequest("rating must be between 0 and %.0f", models.MaxDriverRating)
		}
		v.Rating = *in.Rating
	}
	if in.DriverID != nil {
		if *in.DriverID == "" {
			v.DriverID = nil
			return nil
		}
		if _, err := s.FindDriverByID(ctx, *in.DriverID); err != nil {
			return err
		}
		driverID := *in.DriverID
		v.DriverID = &driverID
	}
	return nil
}

// Routes

// CreateRoute attaches a new route to an existing vehicle. A missing vehicle
// fails with NotFound and persists nothing.
func (s *FleetService) CreateRoute(ctx context.Context, in RouteInput) (*models.Route, error) {
	switch {
	case in.Name == nil || strings.TrimSpace(*in.Name) == "":
		return nil, BadRequest("name is required")
	case in.DepartureCity == nil || in.ArrivalCity == nil:
		return nil, BadRequest("departureCity and arrivalCity are required")
	case in.DepartureTime == nil:
		return nil, BadRequest("departureTime is required")
	case in.Price == nil:
		return nil, BadRequest("price is required")
	case in.VehicleID == nil || *in.VehicleID == "":
		return nil, BadRequest("vehicleId is required")
	}

	route := &models.Route{
		Status:      models.RouteActive,
		IsAvailable: true,
		VehicleID:   *in.VehicleID,
	}
	in.VehicleID = nil
	if err := applyRoute(route, in); err != nil {
		return nil, err
	}

	if err := s.routes.CreateForVehicle(ctx, route); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NotFound("Vehicle not found")
		}
		return nil, fmt.Errorf("create route: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"route_id":   route.ID,
		"vehicle_id": route.VehicleID,
		"from":       route.DepartureCity,
		"to":         route.ArrivalCity,
	}).Info("Route created")
	return route, nil
}

func (s *FleetService) FindAllRoutes(ctx context.Context) ([]models.Route, error) {
	return s.routes.FindAll(ctx)
}

func (s *FleetService) FindRouteByID(ctx context.Context, id string) (*models.Route, error) {
	route, err := s.routes.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFound("Route not found")
	}
	return route, err
}

// FindRoutesByCities matches city names exactly, case included.
func (s *FleetService) FindRoutesByCities(ctx context.Context, departureCity, arrivalCity string) ([]models.Route, error) {
	return s.routes.FindByCities(ctx, departureCity, arrivalCity)
}

func (s *FleetService) UpdateRoute(ctx context.Context, id string, in RouteInput) (*models.Route, error) {
	route, err := s.FindRouteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.VehicleID != nil && *in.VehicleID != route.VehicleID {
		if _, err := s.FindVehicleByID(ctx, *in.VehicleID); err != nil {
			return nil, err
		}
		route.VehicleID = *in.VehicleID
	}
	in.VehicleID = nil
	if err := applyRoute(route, in); err != nil {
		return nil, err
	}
	route.Vehicle = nil
	if err := s.routes.Save(ctx, route); err != nil {
		return nil, fmt.Errorf("update route: %w", err)
	}
	logrus.WithField("route_id", route.ID).Info("Route updated")
	return s.FindRouteByID(ctx, route.ID)
}

func (s *FleetService) DeleteRoute(ctx context.Context, id string) error {
	route, err := s.FindRouteByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.routes.Delete(ctx, route); err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	logrus.WithField("route_id", id).Info("Route deleted")
	return nil
}

func applyRoute(r *models.Route, in RouteInput) error {
	if in.Name != nil {
		r.Name = strings.TrimSpace(*in.Name)
	}
	if in.DepartureCity != nil {
		r.DepartureCity = *in.DepartureCity
	}
	if in.ArrivalCity != nil {
		r.ArrivalCity = *in.ArrivalCity
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.Distance != nil {
		if *in.Distance < 0 {
			return BadRequest("distance cannot be negative")
		}
		r.Distance = in.Distance
	}
	if in.EstimatedDuration != nil {
		if *in.EstimatedDuration < 0 {
			return BadRequest("estimatedDuration cannot be negative")
		}
		r.EstimatedDuration = in.EstimatedDuration
	}
	if in.DepartureTime != nil {
		if !models.IsClock(*in.DepartureTime) {
			return BadRequest("departureTime must be HH:MM or HH:MM:SS")
		}
		r.DepartureTime = *in.DepartureTime
	}
	if in.ArrivalTime != nil {
		if *in.ArrivalTime == "" {
			r.ArrivalTime = nil
		} else if !models.IsClock(*in.ArrivalTime) {
			return BadRequest("arrivalTime must be HH:MM or HH:MM:SS")
		} else {
			arrival := *in.ArrivalTime
			r.ArrivalTime = &arrival
		}
	}
	if in.Price != nil {
		if err := checkMoney("price", *in.Price); err != nil {
			return err
		}
		r.Price = roundCents(*in.Price)
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return BadRequest("invalid route status %q", *in.Status)
		}
		r.Status = *in.Status
	}
	if in.Stops != nil {
		r.Stops = in.Stops
	}
	if in.Notes != nil {
		r.Notes = *in.Notes
	}
	if in.IsAvailable != nil {
		r.IsAvailable = *in.IsAvailable
	}
	if in.Geometry != nil {
		g, err := encodeGeometry(*in.Geometry)
		if err != nil {
			return err
		}
		r.Geometry = g
	}
	return nil
}

// Drivers

func (s *FleetService) CreateDriver(ctx context.Context, in DriverInput) (*models.Driver, error) {
	switch {
	case in.FirstName == nil || in.LastName == nil:
		return nil, BadRequest("firstName and lastName are required")
	case in.Email == nil || strings.TrimSpace(*in.Email) == "":
		return nil, BadRequest("email is required")
	case in.Phone == nil:
		return nil, BadRequest("phone is required")
	}

	driver := &models.Driver{Status: models.DriverActive}
	if err := applyDriver(driver, in); err != nil {
		return nil, err
	}
	if err := s.drivers.Create(ctx, driver); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, Conflict("Driver with this email already exists")
		}
		return nil, fmt.Errorf("create driver: %w", err)
	}
	logrus.WithField("driver_id", driver.ID).Info("Driver created")
	return driver, nil
}

func (s *FleetService) FindAllDrivers(ctx context.Context) ([]models.Driver, error) {
	return s.drivers.FindAll(ctx)
}

func (s *FleetService) FindDriverByID(ctx context.Context, id string) (*models.Driver, error) {
	driver, err := s.drivers.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFound("Driver not found")
	}
	return driver, err
}

func (s *FleetService) UpdateDriver(ctx context.Context, id string, in DriverInput) (*models.Driver, error) {
	driver, err := s.FindDriverByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyDriver(driver, in); err != nil {
		return nil, err
	}
	if err := s.drivers.Save(ctx, driver); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, Conflict("Driver with this email already exists")
		}
		return nil, fmt.Errorf("update driver: %w", err)
	}
	logrus.WithField("driver_id", driver.ID).Info("Driver updated")
	return driver, nil
}

// DeleteDriver removes the driver; vehicles it drove stay, driverless.
func (s *FleetService) DeleteDriver(ctx context.Context, id string) error {
	driver, err := s.FindDriverByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.drivers.Delete(ctx, driver); err != nil {
		return fmt.Errorf("delete driver: %w", err)
	}
	logrus.WithField("driver_id", id).Info("Driver deleted")
	return nil
}

func applyDriver(d *models.Driver, in DriverInput) error {
	if in.FirstName != nil {
		d.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		d.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		d.Email = normalizeEmail(*in.Email)
	}
	if in.Phone != nil {
		d.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.LicenseNumber != nil {
		d.LicenseNumber = *in.LicenseNumber
	}
	if in.LicenseExpiry != nil {
		d.LicenseExpiry = in.LicenseExpiry
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return BadRequest("invalid driver status %q", *in.Status)
		}
		d.Status = *in.Status
	}
	if in.Rating != nil {
		if *in.Rating < 0 || *in.Rating > models.MaxDriverRating {
			return BadRequest("rating must be between 0 and %.0f", models.MaxDriverRating)
		}
		d.Rating = *in.Rating
	}
	if in.YearsOfExperience != nil {
		if *in.YearsOfExperience < 0 {
			return BadRequest("yearsOfExperience cannot be negative")
		}
		d.YearsOfExperience = *in.YearsOfExperience
	}
	if in.Address != nil {
		d.Address = *in.Address
	}
	if in.DateOfBirth != nil {
		d.DateOfBirth = in.DateOfBirth
	}
	if in.EmergencyContact != nil {
		d.EmergencyContact = *in.EmergencyContact
	}
	if in.Notes != nil {
		d.Notes = *in.Notes
	}
	if in.ProfileImage != nil {
		d.ProfileImage = *in.ProfileImage
	}
	return nil
}

func (s *FleetService) GetFleetStats(ctx context.Context) (*FleetStats, error) {
	var (
		stats FleetStats
		err   error
	)
	if stats.TotalVehicles, err = s.vehicles.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveVehicles, err = s.vehicles.CountByStatus(ctx, models.VehicleActive); err != nil {
		return nil, err
	}
	if stats.TotalRoutes, err = s.routes.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalDrivers, err = s.drivers.Count(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}

// maxMoney is the largest value a decimal(10,2) column holds.
const maxMoney = 99999999.99

func checkMoney(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return BadRequest("%s must be a non-negative number", field)
	}
	if roundCents(v) > maxMoney {
		return BadRequest("%s must not exceed %.2f", field, maxMoney)
	}
	return nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
