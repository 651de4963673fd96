// Package users provides database operations for user accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByUsername(ctx, "admin")
package users

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/petadoption/internal/apperrors"
	"github.com/mrlokans/petadoption/internal/database"
	"github.com/mrlokans/petadoption/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user. A taken username yields apperrors.ErrDuplicateUsername.
func (r *Repository) Create(ctx context.Context, user *entities.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err == nil {
		return nil
	}
	if database.IsUniqueViolation(err) {
		return apperrors.ErrDuplicateUsername
	}
	return apperrors.Store("create user", err)
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if database.IsRecordNotFound(err) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, apperrors.Store("get user", err)
	}
	return &user, nil
}

// GetByUsername retrieves a user by exact, case-sensitive username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if database.IsRecordNotFound(err) {
			return nil, apperrors.NotFound("user", username)
		}
		return nil, apperrors.Store("get user by username", err)
	}
	return &user, nil
}

// Count returns the number of registered users.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error; err != nil {
		return 0, apperrors.Store("count users", err)
	}
	return count, nil
}
