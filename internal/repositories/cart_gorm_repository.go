package repositories

import (
	"errors"
	"fmt"
	"time"

	"warung/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository. Per-customer
// serialization comes from running each mutation in a transaction scoped to
// the customer's rows.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// AddOrIncrement merges the line into the customer's cart.
func (r *GORMCartRepository) AddOrIncrement(line models.CartLine) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.CartLine
		err := tx.Where(
			"customer_id = ? AND dish_id = ? AND package_id = ? AND flavor = ?",
			line.CustomerID, line.DishID, line.PackageID, line.Flavor,
		).First(&existing).Error

		if err == nil {
			res := tx.Model(&models.CartLine{}).
				Where("id = ?", existing.ID).
				Update("quantity", existing.Quantity+line.Quantity)
			if res.Error != nil {
				return fmt.Errorf("failed to increment cart line: %w", res.Error)
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up cart line: %w", err)
		}

		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.CreatedAt = time.Now()
		if err := tx.Create(&line).Error; err != nil {
			return fmt.Errorf("failed to insert cart line: %w", err)
		}
		return nil
	})
}

// Decrement lowers the matching line's quantity by one, deleting at zero.
func (r *GORMCartRepository) Decrement(customerID string, key models.ItemKey) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.CartLine
		err := tx.Where(
			"customer_id = ? AND dish_id = ? AND package_id = ? AND flavor = ?",
			customerID, key.DishID, key.PackageID, key.Flavor,
		).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to look up cart line: %w", err)
		}

		if existing.Quantity <= 1 {
			if err := tx.Delete(&models.CartLine{}, "id = ?", existing.ID).Error; err != nil {
				return fmt.Errorf("failed to delete cart line: %w", err)
			}
			return nil
		}
		res := tx.Model(&models.CartLine{}).
			Where("id = ?", existing.ID).
			Update("quantity", existing.Quantity-1)
		if res.Error != nil {
			return fmt.Errorf("failed to decrement cart line: %w", res.Error)
		}
		return nil
	})
}

// List returns all of the customer's cart lines.
func (r *GORMCartRepository) List(customerID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.db.Find(&lines, "customer_id = ?", customerID).Error; err != nil {
		return nil, fmt.Errorf("failed to list cart for customer %s: %w", customerID, err)
	}
	return lines, nil
}

// Clear removes every line of the customer's cart.
func (r *GORMCartRepository) Clear(customerID string) error {
	if err := r.db.Delete(&models.CartLine{}, "customer_id = ?", customerID).Error; err != nil {
		return fmt.Errorf("failed to clear cart for customer %s: %w", customerID, err)
	}
	return nil
}

// InsertBatch adds lines wholesale.
func (r *GORMCartRepository) InsertBatch(lines []models.CartLine) error {
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		if lines[i].ID == "" {
			lines[i].ID = uuid.New().String()
		}
		lines[i].CreatedAt = time.Now()
	}
	if err := r.db.Create(&lines).Error; err != nil {
		return fmt.Errorf("failed to insert cart lines: %w", err)
	}
	return nil
}
