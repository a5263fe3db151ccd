package repositories

import (
	"sort"
	"sync"
	"time"

	"warung/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository. The
// same mutex guards reads and the compare-and-set write, so its concurrency
// semantics match the conditional UPDATE of the GORM implementation.
type MockOrderRepository struct {
	orders map[string]models.Order
	lines  map[string][]models.OrderLine
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		lines:  make(map[string][]models.OrderLine),
	}
}

// Create stores the order and its lines together.
func (r *MockOrderRepository) Create(order *models.Order, lines []models.OrderLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	stampNew(order)
	for i := range lines {
		if lines[i].ID == "" {
			lines[i].ID = uuid.New().String()
		}
		lines[i].OrderID = order.ID
	}
	r.orders[order.ID] = *order
	r.lines[order.ID] = lines
	return nil
}

// GetByID returns an order by its internal ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	return &order, nil
}

// GetByNumber returns an order by its order number.
func (r *MockOrderRepository) GetByNumber(number string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.Number == number {
			o := order
			return &o, nil
		}
	}
	return nil, models.ErrOrderNotFound
}

// GetLines returns the line snapshots of an order.
func (r *MockOrderRepository) GetLines(orderID string) ([]models.OrderLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines := make([]models.OrderLine, len(r.lines[orderID]))
	copy(lines, r.lines[orderID])
	return lines, nil
}

// ListByCustomer returns a customer's orders, newest first.
func (r *MockOrderRepository) ListByCustomer(customerID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].OrderTime.After(orders[j].OrderTime)
	})
	return orders, nil
}

// ListByStatusOlderThan returns orders sitting in status since before cutoff.
func (r *MockOrderRepository) ListByStatusOlderThan(status models.OrderStatus, cutoff time.Time) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.orders {
		if order.Status == status && order.UpdatedAt.Before(cutoff) {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

// CompareAndSetStatus applies a transition only if the stored status still
// equals expected. The check and the write happen under one lock acquisition.
func (r *MockOrderRepository) CompareAndSetStatus(id string, expected, next models.OrderStatus, mutate func(*models.Order)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return models.ErrOrderNotFound
	}
	if order.Status != expected {
		return models.ErrConcurrentModification
	}

	order.Status = next
	withAudit(mutate)(&order)
	r.orders[id] = order
	return nil
}

// CountByStatus counts orders currently in the given status.
func (r *MockOrderRepository) CountByStatus(status models.OrderStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, order := range r.orders {
		if order.Status == status {
			count++
		}
	}
	return count, nil
}
