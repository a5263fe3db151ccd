package repositories

import "warung/internal/models"

// UserRepository stores customer accounts. Lookups miss with
// models.ErrUserNotFound.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
