package repositories

import (
	"sync"
	"time"

	"warung/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository. One
// mutex serializes all cart mutations, which satisfies the per-customer
// serialization requirement; carts of different customers share the lock but
// cart operations are short enough that it does not matter here.
type MockCartRepository struct {
	lines map[string][]models.CartLine // keyed by customer id
	mu    sync.Mutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		lines: make(map[string][]models.CartLine),
	}
}

// AddOrIncrement merges the line into the customer's cart.
func (r *MockCartRepository) AddOrIncrement(line models.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := models.ItemKey{DishID: line.DishID, PackageID: line.PackageID, Flavor: line.Flavor}
	cart := r.lines[line.CustomerID]
	for i := range cart {
		if cart[i].Matches(key) {
			cart[i].Quantity += line.Quantity
			r.lines[line.CustomerID] = cart
			return nil
		}
	}

	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	line.CreatedAt = time.Now()
	r.lines[line.CustomerID] = append(cart, line)
	return nil
}

// Decrement lowers the matching line's quantity by one, deleting at zero.
func (r *MockCartRepository) Decrement(customerID string, key models.ItemKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := r.lines[customerID]
	for i := range cart {
		if !cart[i].Matches(key) {
			continue
		}
		if cart[i].Quantity <= 1 {
			r.lines[customerID] = append(cart[:i], cart[i+1:]...)
		} else {
			cart[i].Quantity--
			r.lines[customerID] = cart
		}
		return nil
	}
	return nil
}

// List returns a copy of the customer's cart lines.
func (r *MockCartRepository) List(customerID string) ([]models.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := make([]models.CartLine, len(r.lines[customerID]))
	copy(cart, r.lines[customerID])
	return cart, nil
}

// Clear removes the customer's cart.
func (r *MockCartRepository) Clear(customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.lines, customerID)
	return nil
}

// InsertBatch adds lines wholesale.
func (r *MockCartRepository) InsertBatch(lines []models.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, line := range lines {
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.CreatedAt = time.Now()
		r.lines[line.CustomerID] = append(r.lines[line.CustomerID], line)
	}
	return nil
}
