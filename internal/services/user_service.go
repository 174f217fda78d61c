package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"engraced_transport/internal/models"
	"engraced_transport/internal/repositories"
)

type ProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

type UserStats struct {
	Total  int64            `json:"total"`
	Active int64            `json:"active"`
	ByRole map[string]int64 `json:"byRole"`
}

type UserService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) FindAll(ctx context.Context) ([]models.User, error) {
	return s.users.FindAll(ctx)
}

func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFound("User not found")
	}
	return user, err
}

func (s *UserService) FindByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	if !role.IsValid() {
		return nil, BadRequest("invalid role %q", role)
	}
	return s.users.FindByRole(ctx, role)
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, in ProfileInput) (*models.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone == "" {
			return nil, BadRequest("phone cannot be empty")
		}
		if phone != user.Phone {
			taken, err := s.users.ExistsByPhone(ctx, phone, user.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, Conflict("Phone number is already in use")
			}
			fields["phone"] = phone
		}
	}
	if len(fields) == 0 {
		return user, nil
	}

	if err := s.users.UpdateFields(ctx, user.ID, fields); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, Conflict("Phone number is already in use")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	logrus.WithField("user_id", user.ID).Info("Profile updated")
	return s.FindByID(ctx, user.ID)
}

// UpdateStatus backs the activate, deactivate and suspend operations.
func (s *UserService) UpdateStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error) {
	if !status.IsValid() {
		return nil, BadRequest("invalid user status %q", status)
	}
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateFields(ctx, user.ID, map[string]interface{}{"status": status}); err != nil {
		return nil, fmt.Errorf("update user status: %w", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "from": user.Status, "to": status}).Info("User status updated")
	user.Status = status
	return user, nil
}

func (s *UserService) GetStats(ctx context.Context) (*UserStats, error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.users.CountByStatus(ctx, models.UserActive)
	if err != nil {
		return nil, err
	}
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{Total: total, Active: active, ByRole: make(map[string]int64, len(models.UserRoles))}
	for _, r := range models.UserRoles {
		stats.ByRole[string(r)] = byRole[string(r)]
	}
	return stats, nil
}
