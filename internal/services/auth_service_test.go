package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"engraced_transport/internal/events"
	"engraced_transport/internal/middleware"
	"engraced_transport/internal/models"
	"engraced_transport/internal/repositories"
	"engraced_transport/internal/testutil"
)

type authFixture struct {
	svc       *AuthService
	users     repositories.UserRepository
	jwt       *middleware.JWT
	publisher *recordingPublisher
	now       time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &authFixture{
		users:     repositories.NewUserRepository(db),
		jwt:       middleware.NewJWT("test-secret", time.Hour),
		publisher: &recordingPublisher{},
		now:       time.Now(),
	}
	f.svc = NewAuthService(f.users, f.jwt, f.publisher,
		WithBcryptCost(bcrypt.MinCost),
		WithClock(func() time.Time { return f.now }),
	)
	return f
}

func (f *authFixture) register(t *testing.T, email, phone string) *AuthResult {
	t.Helper()
	result, err := f.svc.Register(context.Background(), RegisterInput{
		Email:     email,
		Password:  "secret123",
		FirstName: "Ada",
		LastName:  "Obi",
		Phone:     phone,
	})
	require.NoError(t, err)
	return result
}

// resetToken returns the raw token carried by the last reset event.
func (f *authFixture) resetToken(t *testing.T) string {
	t.Helper()
	f.publisher.mu.Lock()
	defer f.publisher.mu.Unlock()
	require.NotEmpty(t, f.publisher.events)
	e := f.publisher.events[len(f.publisher.events)-1]
	require.Equal(t, events.PasswordResetRequested, e.Type)
	data, ok := e.Data.(map[string]interface{})
	require.True(t, ok)
	return data["token"].(string)
}

func TestRegisterIssuesTokenWithClaims(t *testing.T) {
	f := newAuthFixture(t)

	result := f.register(t, "alice@x.com", "+2348000000001")
	assert.Equal(t, models.RolePassenger, result.User.Role)
	assert.Equal(t, models.UserActive, result.User.Status)
	assert.Empty(t, result.User.Password)

	claims, err := f.jwt.Parse(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.Subject)
	assert.Equal(t, "alice@x.com", claims.Email)
	assert.Equal(t, "passenger", claims.Role)

	stored, err := f.users.FindByEmail(context.Background(), "alice@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
}

func TestRegisterConflicts(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice@x.com", "+2348000000001")

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Email: "alice@x.com", Password: "secret123", FirstName: "A", LastName: "B", Phone: "+2348000000002",
	})
	assert.Equal(t, KindConflict, KindOf(err))

	_, err = f.svc.Register(context.Background(), RegisterInput{
		Email: "other@x.com", Password: "secret123", FirstName: "A", LastName: "B", Phone: "+2348000000001",
	})
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestRegisterRejectsPrivilegedRoles(t *testing.T) {
	f := newAuthFixture(t)

	for _, role := range []models.UserRole{models.RoleAdmin, models.RoleManager, models.RoleHR} {
		_, err := f.svc.Register(context.Background(), RegisterInput{
			Email: string(role) + "@x.com", Password: "secret123", FirstName: "A", LastName: "B",
			Phone: "+234" + string(role), Role: role,
		})
		assert.Equal(t, KindBadRequest, KindOf(err), role)
	}

	result, err := f.svc.Register(context.Background(), RegisterInput{
		Email: "driver@x.com", Password: "secret123", FirstName: "A", LastName: "B",
		Phone: "+2348000000009", Role: models.RoleDriver,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDriver, result.User.Role)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	registered := f.register(t, "alice@x.com", "+2348000000001")

	result, err := f.svc.Login(ctx, "alice@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)
	assert.NotEmpty(t, result.AccessToken)
	require.NotNil(t, result.User.LastLoginAt)

	stored, err := f.users.FindByID(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "alice@x.com", "+2348000000001")

	_, wrongPassword := f.svc.Login(ctx, "alice@x.com", "nope")
	_, unknownEmail := f.svc.Login(ctx, "nobody@x.com", "secret123")

	assert.Equal(t, KindUnauthorized, KindOf(wrongPassword))
	assert.Equal(t, KindUnauthorized, KindOf(unknownEmail))
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())

	user, err := f.svc.ValidateUser(ctx, "alice@x.com", "nope")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	registered := f.register(t, "alice@x.com", "+2348000000001")

	require.NoError(t, f.users.UpdateFields(ctx, registered.User.ID, map[string]interface{}{"status": models.UserSuspended}))

	_, err := f.svc.Login(ctx, "alice@x.com", "secret123")
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.Equal(t, "Account is not active", err.Error())
}

func TestForgotPasswordSameMessageEitherWay(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "alice@x.com", "+2348000000001")

	known, err := f.svc.ForgotPassword(ctx, "alice@x.com")
	require.NoError(t, err)
	unknown, err := f.svc.ForgotPassword(ctx, "nobody@x.com")
	require.NoError(t, err)

	assert.Equal(t, ForgotPasswordMessage, known)
	assert.Equal(t, known, unknown)
	assert.Equal(t, []string{events.PasswordResetRequested}, f.publisher.types())

	stored, err := f.users.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordResetToken)
	assert.NotEqual(t, f.resetToken(t), *stored.PasswordResetToken, "only the digest is stored")
	require.NotNil(t, stored.PasswordResetExpires)
	assert.WithinDuration(t, f.now.Add(time.Hour), *stored.PasswordResetExpires, time.Second)
}

func TestResetPasswordIsSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "alice@x.com", "+2348000000001")

	_, err := f.svc.ForgotPassword(ctx, "alice@x.com")
	require.NoError(t, err)
	token := f.resetToken(t)

	require.NoError(t, f.svc.ResetPassword(ctx, token, "newsecret"))

	err = f.svc.ResetPassword(ctx, token, "another1")
	assert.Equal(t, KindBadRequest, KindOf(err))

	_, err = f.svc.Login(ctx, "alice@x.com", "secret123")
	assert.Equal(t, KindUnauthorized, KindOf(err))
	_, err = f.svc.Login(ctx, "alice@x.com", "newsecret")
	assert.NoError(t, err)

	stored, err := f.users.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Nil(t, stored.PasswordResetToken)
	assert.Nil(t, stored.PasswordResetExpires)
}

func TestResetPasswordRejectsExpiredAndUnknownTokens(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "alice@x.com", "+2348000000001")

	_, err := f.svc.ForgotPassword(ctx, "alice@x.com")
	require.NoError(t, err)
	token := f.resetToken(t)

	f.now = f.now.Add(61 * time.Minute)
	err = f.svc.ResetPassword(ctx, token, "newsecret")
	assert.Equal(t, KindBadRequest, KindOf(err))

	err = f.svc.ResetPassword(ctx, "deadbeef", "newsecret")
	assert.Equal(t, KindBadRequest, KindOf(err))
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	registered := f.register(t, "alice@x.com", "+2348000000001")

	err := f.svc.ChangePassword(ctx, registered.User.ID, "wrong", "newsecret")
	assert.Equal(t, KindBadRequest, KindOf(err))

	err = f.svc.ChangePassword(ctx, "0b6c1f8e-1111-4222-8333-944455556666", "secret123", "newsecret")
	assert.Equal(t, KindNotFound, KindOf(err))

	require.NoError(t, f.svc.ChangePassword(ctx, registered.User.ID, "secret123", "newsecret"))
	_, err = f.svc.Login(ctx, "alice@x.com", "newsecret")
	assert.NoError(t, err)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.EnsureAdmin(ctx, "admin@engraced.com", "admin123", "+2340000000000"))
	require.NoError(t, f.svc.EnsureAdmin(ctx, "admin@engraced.com", "admin123", "+2340000000000"))
	require.NoError(t, f.svc.EnsureAdmin(ctx, "", "", ""))

	admins, err := f.users.FindByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)

	result, err := f.svc.Login(ctx, "admin@engraced.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, result.User.Role)
}
