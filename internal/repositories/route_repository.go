package repositories

import (
	"context"

	"gorm.io/gorm"

	"engraced_transport/internal/models"
)

type RouteRepository interface {
	CreateForVehicle(ctx context.Context, route *models.Route) error
	Save(ctx context.Context, route *models.Route) error
	Delete(ctx context.Context, route *models.Route) error
	FindAll(ctx context.Context) ([]models.Route, error)
	FindByID(ctx context.Context, id string) (*models.Route, error)
	FindByCities(ctx context.Context, departureCity, arrivalCity string) ([]models.Route, error)
	Count(ctx context.Context) (int64, error)
}

type routeRepository struct {
	db *gorm.DB
}

func NewRouteRepository(db *gorm.DB) RouteRepository {
	return &routeRepository{db: db}
}

func (r *routeRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Vehicle").Preload("Vehicle.Driver")
}

// CreateForVehicle resolves route.VehicleID, attaches the vehicle and saves
// the route in one transaction. ErrNotFound means the vehicle does not exist
// and nothing was written.
func (r *routeRepository) CreateForVehicle(ctx context.Context, route *models.Route) error {
	if !models.IsUUID(route.VehicleID) {
		return ErrNotFound
	}

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var vehicle models.Vehicle
	if err := tx.First(&vehicle, "id = ?", route.VehicleID).Error; err != nil {
		tx.Rollback()
		return translate(err)
	}

	if err := tx.Omit("Vehicle").Create(route).Error; err != nil {
		tx.Rollback()
		return translate(err)
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}
	route.Vehicle = &vehicle
	return nil
}

func (r *routeRepository) Save(ctx context.Context, route *models.Route) error {
	return translate(r.db.WithContext(ctx).Omit("Vehicle").Save(route).Error)
}

func (r *routeRepository) Delete(ctx context.Context, route *models.Route) error {
	return translate(r.db.WithContext(ctx).Delete(route).Error)
}

func (r *routeRepository) FindAll(ctx context.Context) ([]models.Route, error) {
	var routes []models.Route
	err := r.withRelations(ctx).Order("created_at desc").Find(&routes).Error
	return routes, err
}

func (r *routeRepository) FindByID(ctx context.Context, id string) (*models.Route, error) {
	if !models.IsUUID(id) {
		return nil, ErrNotFound
	}
	var route models.Route
	if err := r.withRelations(ctx).First(&route, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &route, nil
}

// FindByCities matches both city names exactly as stored. Unavailable routes
// are excluded.
func (r *routeRepository) FindByCities(ctx context.Context, departureCity, arrivalCity string) ([]models.Route, error) {
	var routes []models.Route
	err := r.withRelations(ctx).
		Where("departure_city = ? AND arrival_city = ? AND is_available = ?", departureCity, arrivalCity, true).
		Order("departure_time asc").
		Find(&routes).Error
	return routes, err
}

func (r *routeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Route{}).Count(&n).Error
	return n, err
}
