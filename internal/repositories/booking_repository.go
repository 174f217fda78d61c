package repositories

import (
	"context"

	"gorm.io/gorm"

	"engraced_transport/internal/models"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	Save(ctx context.Context, booking *models.Booking) error
	FindAll(ctx context.Context) ([]models.Booking, error)
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	FindByUser(ctx context.Context, userID string) ([]models.Booking, error)
	Count(ctx context.Context) (int64, error)
	CountByType(ctx context.Context) (map[string]int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	SumAmount(ctx context.Context) (float64, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return translate(r.db.WithContext(ctx).Create(booking).Error)
}

// Save writes the booking's own columns only; the preloaded owner is left alone.
func (r *bookingRepository) Save(ctx context.Context, booking *models.Booking) error {
	return translate(r.db.WithContext(ctx).Omit("User").Save(booking).Error)
}

func (r *bookingRepository) FindAll(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).Preload("User").Order("created_at desc").Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	if !models.IsUUID(id) {
		return nil, ErrNotFound
	}
	var booking models.Booking
	if err := r.db.WithContext(ctx).Preload("User").First(&booking, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (r *bookingRepository) FindByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	if !models.IsUUID(userID) {
		return []models.Booking{}, nil
	}
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).Count(&n).Error
	return n, err
}

func (r *bookingRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	return groupCount(r.db.WithContext(ctx).Model(&models.Booking{}), "type")
}

func (r *bookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return groupCount(r.db.WithContext(ctx).Model(&models.Booking{}), "status")
}

// SumAmount totals every booking regardless of status; an empty table sums to 0.
func (r *bookingRepository) SumAmount(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
