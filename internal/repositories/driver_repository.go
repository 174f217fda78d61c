package repositories

import (
	"context"

	"gorm.io/gorm"

	"engraced_transport/internal/models"
)

type DriverRepository interface {
	Create(ctx context.Context, driver *models.Driver) error
	Save(ctx context.Context, driver *models.Driver) error
	Delete(ctx context.Context, driver *models.Driver) error
	FindAll(ctx context.Context) ([]models.Driver, error)
	FindByID(ctx context.Context, id string) (*models.Driver, error)
	Count(ctx context.Context) (int64, error)
}

type driverRepository struct {
	db *gorm.DB
}

func NewDriverRepository(db *gorm.DB) DriverRepository {
	return &driverRepository{db: db}
}

func (r *driverRepository) Create(ctx context.Context, driver *models.Driver) error {
	return translate(r.db.WithContext(ctx).Omit("Vehicles").Create(driver).Error)
}

func (r *driverRepository) Save(ctx context.Context, driver *models.Driver) error {
	return translate(r.db.WithContext(ctx).Omit("Vehicles").Save(driver).Error)
}

// Delete unassigns the driver from its vehicles before removing it, so the
// weak vehicle→driver reference never dangles.
func (r *driverRepository) Delete(ctx context.Context, driver *models.Driver) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Vehicle{}).
			Where("driver_id = ?", driver.ID).
			Update("driver_id", nil).Error; err != nil {
			return err
		}
		return translate(tx.Delete(driver).Error)
	})
}

func (r *driverRepository) FindAll(ctx context.Context) ([]models.Driver, error) {
	var drivers []models.Driver
	err := r.db.WithContext(ctx).Preload("Vehicles").Order("created_at desc").Find(&drivers).Error
	return drivers, err
}

func (r *driverRepository) FindByID(ctx context.Context, id string) (*models.Driver, error) {
	if !models.IsUUID(id) {
		return nil, ErrNotFound
	}
	var driver models.Driver
	if err := r.db.WithContext(ctx).Preload("Vehicles").First(&driver, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &driver, nil
}

func (r *driverRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Driver{}).Count(&n).Error
	return n, err
}
