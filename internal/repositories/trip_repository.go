package repositories

import (
	"context"

	"gorm.io/gorm"

	"engraced_transport/internal/models"
)

type TripRepository interface {
	Create(ctx context.Context, trip *models.Trip) error
	Save(ctx context.Context, trip *models.Trip) error
	FindAll(ctx context.Context) ([]models.Trip, error)
	FindByID(ctx context.Context, id string) (*models.Trip, error)
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) Create(ctx context.Context, trip *models.Trip) error {
	return translate(r.db.WithContext(ctx).Omit("Vehicle").Create(trip).Error)
}

func (r *tripRepository) Save(ctx context.Context, trip *models.Trip) error {
	return translate(r.db.WithContext(ctx).Omit("Vehicle").Save(trip).Error)
}

func (r *tripRepository) FindAll(ctx context.Context) ([]models.Trip, error) {
	var trips []models.Trip
	err := r.db.WithContext(ctx).Preload("Vehicle").Order("departure_time asc").Find(&trips).Error
	return trips, err
}

func (r *tripRepository) FindByID(ctx context.Context, id string) (*models.Trip, error) {
	if !models.IsUUID(id) {
		return nil, ErrNotFound
	}
	var trip models.Trip
	if err := r.db.WithContext(ctx).Preload("Vehicle").First(&trip, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &trip, nil
}
