package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"order-desk/models"
)

// EnsureAdmin creates an active admin account for email unless a user with
// that email already exists. It reports whether a user was created.
func EnsureAdmin(ctx context.Context, db *gorm.DB, email, password, fullName string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}

	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	admin := models.User{FullName: fullName, Email: email, Role: models.RoleAdmin, IsActive: true}
	if err := admin.HashPassword(password); err != nil {
		return false, err
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, err
	}
	return true, nil
}
