package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engraced_transport/internal/models"
	"engraced_transport/internal/repositories"
	"engraced_transport/internal/testutil"
)

func TestUserProfileAndStatus(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(repositories.NewUserRepository(db))
	ctx := context.Background()

	ada := testutil.CreateUser(t, db, "ada@x.com", "secret123", models.RolePassenger)
	bola := testutil.CreateUser(t, db, "bola@x.com", "secret123", models.RoleDriver)

	updated, err := svc.UpdateProfile(ctx, ada.ID, ProfileInput{FirstName: ptr("Adaeze"), Phone: ptr("+2348099999999")})
	require.NoError(t, err)
	assert.Equal(t, "Adaeze", updated.FirstName)
	assert.Equal(t, "+2348099999999", updated.Phone)

	_, err = svc.UpdateProfile(ctx, bola.ID, ProfileInput{Phone: ptr("+2348099999999")})
	assert.Equal(t, KindConflict, KindOf(err))

	suspended, err := svc.UpdateStatus(ctx, bola.ID, models.UserSuspended)
	require.NoError(t, err)
	assert.Equal(t, models.UserSuspended, suspended.Status)

	_, err = svc.UpdateStatus(ctx, "0b6c1f8e-1111-4222-8333-944455556666", models.UserActive)
	assert.Equal(t, KindNotFound, KindOf(err))

	drivers, err := svc.FindByRole(ctx, models.RoleDriver)
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, bola.ID, drivers[0].ID)

	_, err = svc.FindByRole(ctx, "pilot")
	assert.Equal(t, KindBadRequest, KindOf(err))
}

func TestUserStatsZeroFilled(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(repositories.NewUserRepository(db))
	ctx := context.Background()

	testutil.CreateUser(t, db, "ada@x.com", "secret123", models.RolePassenger)
	admin := testutil.CreateUser(t, db, "boss@x.com", "secret123", models.RoleAdmin)
	_, err := svc.UpdateStatus(ctx, admin.ID, models.UserInactive)
	require.NoError(t, err)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Active)
	assert.Len(t, stats.ByRole, len(models.UserRoles))
	assert.Equal(t, int64(1), stats.ByRole["passenger"])
	assert.Equal(t, int64(1), stats.ByRole["admin"])
	assert.Equal(t, int64(0), stats.ByRole["hr"])
}
