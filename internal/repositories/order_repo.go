package repositories

import (
	"time"

	"warung/internal/models"
)

// OrderRepository defines the interface for order data access. It is the sole
// source of truth for order state; all writes after creation go through
// CompareAndSetStatus.
type OrderRepository interface {
	// Create persists the order and its lines as one atomic unit.
	Create(order *models.Order, lines []models.OrderLine) error
	GetByID(id string) (*models.Order, error)
	GetByNumber(number string) (*models.Order, error)
	// GetLines returns the immutable line snapshots of an order.
	GetLines(orderID string) ([]models.OrderLine, error)
	ListByCustomer(customerID string) ([]models.Order, error)
	// ListByStatusOlderThan returns orders in the given status whose last
	// status change happened before cutoff. For a PENDING_PAYMENT order that
	// is its placement time; for OUT_FOR_DELIVERY it is the dispatch time.
	// Used by the reconciliation sweeps.
	ListByStatusOlderThan(status models.OrderStatus, cutoff time.Time) ([]models.Order, error)
	// CompareAndSetStatus moves the order to next only if its current status
	// equals expected, applying mutate to the record in the same write. A
	// mismatch observed at write time returns models.ErrConcurrentModification;
	// a missing order returns models.ErrOrderNotFound. Exactly one of two
	// racing callers succeeds.
	CompareAndSetStatus(id string, expected, next models.OrderStatus, mutate func(*models.Order)) error
	CountByStatus(status models.OrderStatus) (int64, error)
}
