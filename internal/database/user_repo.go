package database

import (
	"fmt"

	"github.com/jinzhu/gorm"

	"gusto/internal/models"
)

// UserRepository backs the admin auth surface.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a repository over an open connection.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail looks a user up by email.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", email, err)
	}
	return &user, nil
}

// Create persists a new user. Duplicate emails fail on the unique index.
func (r *UserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}
