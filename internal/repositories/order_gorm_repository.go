package repositories

import (
	"errors"
	"fmt"
	"time"

	"warung/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists the order and its lines in a single transaction. A partial
// write (order without lines) never becomes visible.
func (r *GORMOrderRepository) Create(order *models.Order, lines []models.OrderLine) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	stampNew(order)

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for i := range lines {
			if lines[i].ID == "" {
				lines[i].ID = uuid.New().String()
			}
			lines[i].OrderID = order.ID
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return fmt.Errorf("failed to create order lines: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a single order by its internal ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByNumber retrieves a single order by its externally visible number.
func (r *GORMOrderRepository) GetByNumber(number string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by number %s: %w", number, err)
	}
	return &order, nil
}

// GetLines retrieves the line snapshots belonging to an order.
func (r *GORMOrderRepository) GetLines(orderID string) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	if err := r.db.Find(&lines, "order_id = ?", orderID).Error; err != nil {
		return nil, fmt.Errorf("failed to get lines for order %s: %w", orderID, err)
	}
	return lines, nil
}

// ListByCustomer retrieves a customer's orders, newest first.
func (r *GORMOrderRepository) ListByCustomer(customerID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Order("order_time DESC").Find(&orders, "customer_id = ?", customerID).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders for customer %s: %w", customerID, err)
	}
	return orders, nil
}

// ListByStatusOlderThan retrieves orders sitting in the given status since
// before cutoff.
func (r *GORMOrderRepository) ListByStatusOlderThan(status models.OrderStatus, cutoff time.Time) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Find(&orders, "status = ? AND updated_at < ?", status, cutoff).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s orders older than %s: %w", status, cutoff, err)
	}
	return orders, nil
}

// mutableStatusColumns are the columns a status transition may touch. The
// conditional UPDATE below writes exactly these.
var mutableStatusColumns = []string{
	"status", "pay_status", "checkout_time", "delivery_time",
	"cancel_time", "cancel_reason", "rejection_reason", "updated_at",
}

// CompareAndSetStatus applies a transition with optimistic concurrency: the
// UPDATE carries the expected status in its WHERE clause, so of two racing
// writers exactly one touches the row.
func (r *GORMOrderRepository) CompareAndSetStatus(id string, expected, next models.OrderStatus, mutate func(*models.Order)) error {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrOrderNotFound
		}
		return fmt.Errorf("failed to load order %s for transition: %w", id, err)
	}
	if order.Status != expected {
		return models.ErrConcurrentModification
	}

	order.Status = next
	withAudit(mutate)(&order)

	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, expected).
		Select(mutableStatusColumns).
		Updates(order)
	if res.Error != nil {
		return fmt.Errorf("failed to update order %s status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		// Someone else moved the order between our read and our write.
		return models.ErrConcurrentModification
	}
	return nil
}

// CountByStatus counts orders currently in the given status.
func (r *GORMOrderRepository) CountByStatus(status models.OrderStatus) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s orders: %w", status, err)
	}
	return count, nil
}
