// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"engraced_transport/internal/config"
	"engraced_transport/internal/models"
)

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := config.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// CreateUser stores an active user whose password is password.
func CreateUser(t testing.TB, db *gorm.DB, email, password string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Phone:     "+234" + uuid.NewString()[:8],
		Password:  string(hash),
		Role:      role,
		Status:    models.UserActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateVehicle stores an available, active vehicle with the given capacity.
func CreateVehicle(t testing.TB, db *gorm.DB, name string, capacity int) *models.Vehicle {
	t.Helper()
	vehicle := &models.Vehicle{
		Name:         name,
		Type:         models.VehicleSienna,
		Status:       models.VehicleActive,
		Capacity:     capacity,
		PricePerTrip: 15000,
		IsAvailable:  true,
	}
	require.NoError(t, db.Omit("Driver", "Routes").Create(vehicle).Error)
	return vehicle
}
