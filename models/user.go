package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const UserTable = "users"

// Roles. Role lives in this table, never in the session payload.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type User struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;not null;default:'employee'" json:"role"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"loginCount"`
	LastLoginIP string     `gorm:"size:45" json:"-"`
	LastLoginUA string     `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }

func ValidRole(r string) bool { return r == RoleAdmin || r == RoleEmployee }

// RoleSatisfies reports whether role meets the required level.
// Admin satisfies everything, employee only employee-level checks.
func RoleSatisfies(role, required string) bool {
	if role == RoleAdmin {
		return ValidRole(required)
	}
	return role == RoleEmployee && required == RoleEmployee
}

// ValidatePassword enforces the minimum password rule for new accounts.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

func (u *User) SetPassword(password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
