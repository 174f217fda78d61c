package models

import (
	"strings"
	"time"
)

type UserRole string

const (
	RolePassenger UserRole = "passenger"
	RoleDriver    UserRole = "driver"
	RoleAdmin     UserRole = "admin"
	RoleManager   UserRole = "manager"
	RoleHR        UserRole = "hr"
)

// UserRoles lists every role in a stable order, used for zero-filled stats.
var UserRoles = []UserRole{RolePassenger, RoleDriver, RoleAdmin, RoleManager, RoleHR}

func (r UserRole) IsValid() bool {
	for _, v := range UserRoles {
		if r == v {
			return true
		}
	}
	return false
}

// IsPrivileged roles cannot be picked by a self-registering user.
func (r UserRole) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleHR
}

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
	UserPending   UserStatus = "pending"
)

func (s UserStatus) IsValid() bool {
	switch s {
	case UserActive, UserInactive, UserSuspended, UserPending:
		return true
	}
	return false
}

type User struct {
	Base
	FirstName string     `json:"firstName" gorm:"not null"`
	LastName  string     `json:"lastName" gorm:"not null"`
	Email     string     `json:"email" gorm:"uniqueIndex;not null"`
	Phone     string     `json:"phone" gorm:"uniqueIndex;not null"`
	Password  string     `json:"-" gorm:"not null"`
	Role      UserRole   `json:"role" gorm:"type:varchar(20);default:passenger;not null"`
	Status    UserStatus `json:"status" gorm:"type:varchar(20);default:active;not null"`

	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`

	// Only the SHA-256 digest of an issued reset token is stored.
	PasswordResetToken   *string    `json:"-" gorm:"index"`
	PasswordResetExpires *time.Time `json:"-"`

	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) IsActive() bool {
	return u.Status == UserActive
}

// IsStaff reports whether the user may run back-office operations.
func (u User) IsStaff() bool {
	return IsStaffRole(string(u.Role))
}

func IsStaffRole(role string) bool {
	return role == string(RoleAdmin) || role == string(RoleManager)
}
