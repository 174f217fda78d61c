package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"engraced_transport/internal/events"
	"engraced_transport/internal/models"
	"engraced_transport/internal/repositories"
)

const (
	// ForgotPasswordMessage is returned whether or not the email is known.
	ForgotPasswordMessage = "If the email exists, a reset link has been sent"

	resetTokenTTL   = time.Hour
	minPasswordSize = 6
)

// TokenIssuer signs access tokens embedding {sub, email, role}.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

type AuthResult struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      models.UserRole
}

type AuthService struct {
	users      repositories.UserRepository
	tokens     TokenIssuer
	publisher  events.Publisher
	bcryptCost int
	now        func() time.Time
}

type AuthOption func(*AuthService)

func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) { s.bcryptCost = cost }
}

func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(users repositories.UserRepository, tokens TokenIssuer, publisher events.Publisher, opts ...AuthOption) *AuthService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	s := &AuthService{
		users:      users,
		tokens:     tokens,
		publisher:  publisher,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateUser returns the user without its password hash when the
// credentials match, and (nil, nil) otherwise. Unknown email and wrong
// password are deliberately indistinguishable.
func (s *AuthService) ValidateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil
	}
	user.Password = ""
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.ValidateUser(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, Unauthorized("Invalid credentials")
	}
	if !user.IsActive() {
		return nil, Unauthorized("Account is not active")
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("record last login: %w", err)
	}
	user.LastLoginAt = &now

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("could not generate token: %w", err)
	}
	logrus.WithField("user_id", user.ID).Info("User logged in")
	return &AuthResult{AccessToken: token, User: user}, nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	phone := strings.TrimSpace(in.Phone)
	if email == "" || phone == "" {
		return nil, BadRequest("email and phone are required")
	}
	if len(in.Password) < minPasswordSize {
		return nil, BadRequest("password must be at least %d characters", minPasswordSize)
	}

	role := in.Role
	if role == "" {
		role = models.RolePassenger
	}
	if !role.IsValid() {
		return nil, BadRequest("invalid role %q", role)
	}
	if role.IsPrivileged() {
		return nil, BadRequest("role %q cannot be self-assigned", role)
	}

	if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, Conflict("User with this email already exists")
	}
	if taken, err := s.users.ExistsByPhone(ctx, phone, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, Conflict("User with this phone already exists")
	}

	user, err := s.createUser(ctx, email, in.Password, in.FirstName, in.LastName, phone, role)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("could not generate token: %w", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User registered")
	return &AuthResult{AccessToken: token, User: user}, nil
}

func (s *AuthService) createUser(ctx context.Context, email, password, firstName, lastName, phone string, role models.UserRole) (*models.User, error) {
	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     email,
		Phone:     phone,
		Password:  hash,
		Role:      role,
		Status:    models.UserActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, Conflict("User with this email or phone already exists")
		}
		return nil, fmt.Errorf("could not create user: %w", err)
	}
	user.Password = ""
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account unless the email is
// already registered. An empty email disables it.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, phone string) error {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil || exists {
		return err
	}
	if len(password) < minPasswordSize {
		return BadRequest("admin password must be at least %d characters", minPasswordSize)
	}
	user, err := s.createUser(ctx, email, password, "Admin", "User", phone, models.RoleAdmin)
	if err != nil {
		return err
	}
	logrus.WithField("user_id", user.ID).Info("Admin user created")
	return nil
}

// ForgotPassword issues a one-hour reset token for a known email and hands
// it to the mailer through the event publisher. The reply never reveals
// whether the email exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repositories.ErrNotFound) {
		return ForgotPasswordMessage, nil
	}
	if err != nil {
		return "", err
	}

	token, err := newResetToken()
	if err != nil {
		return "", err
	}
	expires := s.now().Add(resetTokenTTL)
	if err := s.users.UpdateFields(ctx, user.ID, map[string]interface{}{
		"password_reset_token":   digest(token),
		"password_reset_expires": expires,
	}); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	e := events.New(events.PasswordResetRequested, "", user.ID, map[string]interface{}{
		"email":     user.Email,
		"name":      user.FullName(),
		"token":     token,
		"expiresAt": expires,
	})
	if err := s.publisher.Publish(ctx, e); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Password reset notification publish failed")
	}
	return ForgotPasswordMessage, nil
}

// ResetPassword consumes a reset token. Expiry is checked here, lazily;
// expired tokens stay stored until overwritten.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return BadRequest("Invalid or expired reset token")
	}
	user, err := s.users.FindByResetToken(ctx, digest(token))
	if errors.Is(err, repositories.ErrNotFound) {
		return BadRequest("Invalid or expired reset token")
	}
	if err != nil {
		return err
	}
	if user.PasswordResetExpires == nil || user.PasswordResetExpires.Before(s.now()) {
		return BadRequest("Invalid or expired reset token")
	}
	if len(newPassword) < minPasswordSize {
		return BadRequest("password must be at least %d characters", minPasswordSize)
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdateFields(ctx, user.ID, map[string]interface{}{
		"password":               hash,
		"password_reset_token":   nil,
		"password_reset_expires": nil,
	}); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	logrus.WithField("user_id", user.ID).Info("Password reset")
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return NotFound("User not found")
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)) != nil {
		return BadRequest("Current password is incorrect")
	}
	if len(newPassword) < minPasswordSize {
		return BadRequest("password must be at least %d characters", minPasswordSize)
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdateFields(ctx, user.ID, map[string]interface{}{"password": hash}); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	logrus.WithField("user_id", user.ID).Info("Password changed")
	return nil
}

func (s *AuthService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
