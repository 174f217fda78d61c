package repositories

import (
	"context"

	"gorm.io/gorm"

	"engraced_transport/internal/models"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	Save(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, vehicle *models.Vehicle) error
	FindAll(ctx context.Context) ([]models.Vehicle, error)
	FindByID(ctx context.Context, id string) (*models.Vehicle, error)
	FindAvailable(ctx context.Context) ([]models.Vehicle, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.VehicleStatus) (int64, error)
}

type vehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Driver").Preload("Routes")
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	return translate(r.db.WithContext(ctx).Omit("Driver", "Routes").Create(vehicle).Error)
}

func (r *vehicleRepository) Save(ctx context.Context, vehicle *models.Vehicle) error {
	return translate(r.db.WithContext(ctx).Omit("Driver", "Routes").Save(vehicle).Error)
}

func (r *vehicleRepository) Delete(ctx context.Context, vehicle *models.Vehicle) error {
	return translate(r.db.WithContext(ctx).Delete(vehicle).Error)
}

func (r *vehicleRepository) FindAll(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.withRelations(ctx).Order("created_at desc").Find(&vehicles).Error
	return vehicles, err
}

func (r *vehicleRepository) FindByID(ctx context.Context, id string) (*models.Vehicle, error) {
	if !models.IsUUID(id) {
		return nil, ErrNotFound
	}
	var vehicle models.Vehicle
	if err := r.withRelations(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &vehicle, nil
}

// FindAvailable requires both the availability flag and an active status.
func (r *vehicleRepository) FindAvailable(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.withRelations(ctx).
		Where("is_available = ? AND status = ?", true, models.VehicleActive).
		Order("created_at desc").
		Find(&vehicles).Error
	return vehicles, err
}

func (r *vehicleRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Count(&n).Error
	return n, err
}

func (r *vehicleRepository) CountByStatus(ctx context.Context, status models.VehicleStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
