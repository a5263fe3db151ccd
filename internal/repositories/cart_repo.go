package repositories

import (
	"warung/internal/models"
)

// CartRepository defines the interface for cart data access. A customer has
// exactly one cart; implementations must serialize mutations per customer so
// concurrent add/checkout races never lose updates.
type CartRepository interface {
	// AddOrIncrement merges line into the cart: an existing line for the same
	// item variant has its quantity raised by line.Quantity, otherwise the
	// line is inserted as-is (price already snapshotted by the caller).
	AddOrIncrement(line models.CartLine) error
	// Decrement lowers the quantity of the matching line by one, deleting the
	// line when it reaches zero. A miss is a no-op.
	Decrement(customerID string, key models.ItemKey) error
	List(customerID string) ([]models.CartLine, error)
	Clear(customerID string) error
	// InsertBatch adds lines wholesale, used when repeating a past order.
	InsertBatch(lines []models.CartLine) error
}
