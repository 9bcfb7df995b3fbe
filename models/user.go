package models

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleReception Role = "reception"
	RoleUser      Role = "user"
)

// ParseRole accepts only the known roles, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch role := Role(strings.ToLower(strings.TrimSpace(s))); role {
	case RoleAdmin, RoleReception, RoleUser:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	FullName     string     `json:"fullname" gorm:"not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	Password     string     `json:"-" gorm:"not null"`
	Role         Role       `json:"role" gorm:"size:16;not null"`
	ResetToken   *string    `json:"-" gorm:"index"`
	ResetExpires *time.Time `json:"-"`
	IsActive     bool       `json:"isActive" gorm:"not null"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// HashPassword hashes the user's password
func (u *User) HashPassword(password string) error {
	passwordInBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(passwordInBytes)
	return nil
}

// CheckPassword checks if the provided password matches the user's password
func (u *User) CheckPassword(providedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(providedPassword))
}

// ResetTokenValid reports whether token matches an unexpired reset request.
func (u *User) ResetTokenValid(token string, now time.Time) bool {
	if u.ResetToken == nil || u.ResetExpires == nil || token == "" {
		return false
	}
	return *u.ResetToken == token && now.Before(*u.ResetExpires)
}
