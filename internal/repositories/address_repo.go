package repositories

import (
	"warung/internal/models"
)

// AddressRepository defines the lookup the order core needs from the address
// book. Address book CRUD itself lives outside the core.
type AddressRepository interface {
	// GetByID returns the address only if it exists and belongs to the given
	// customer; otherwise models.ErrAddressNotFound.
	GetByID(id, customerID string) (*models.Address, error)
	Create(address *models.Address) error
}
