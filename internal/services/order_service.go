package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"warung/internal/models"
	"warung/internal/notify"
	"warung/internal/repositories"
)

// RefundPublisher records the obligation to refund a paid order that was
// cancelled or rejected. Publishing is best-effort from the state machine's
// point of view: a failure is logged and retried out of band, it never blocks
// the transition itself.
type RefundPublisher interface {
	PublishRefund(order models.Order) error
}

// OrderService owns the order state machine. Every transition is a single
// optimistic read-modify-write against the repository; of two racing
// transitions on the same order exactly one wins and the loser sees a
// conflict. Caller-facing operations retry the whole operation once before
// surfacing the conflict.
type OrderService struct {
	orderRepo  repositories.OrderRepository
	cartRepo   repositories.CartRepository
	dispatcher *notify.Dispatcher
	refunds    RefundPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	dispatcher *notify.Dispatcher,
	refunds RefundPublisher,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		cartRepo:   cartRepo,
		dispatcher: dispatcher,
		refunds:    refunds,
	}
}

// retryOnConflict runs op, and once more if it lost an optimistic-concurrency
// race. The second run re-reads current state, so it either succeeds against
// the new state, reports the state as invalid, or surfaces the conflict.
func retryOnConflict(op func() error) error {
	err := op()
	if errors.Is(err, models.ErrConcurrentModification) {
		err = op()
	}
	return err
}

// guard loads the order and checks the transition is being attempted from the
// one status it is legal from.
func (s *OrderService) guard(orderID string, from models.OrderStatus) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != from {
		return nil, fmt.Errorf("%w: order %s is %s, expected %s",
			models.ErrInvalidState, orderID, order.Status, from)
	}
	return order, nil
}

// Confirm moves an order awaiting confirmation to CONFIRMED (merchant takes
// the order).
func (s *OrderService) Confirm(orderID string) error {
	return retryOnConflict(func() error {
		if _, err := s.guard(orderID, models.StatusAwaitingConfirmation); err != nil {
			return err
		}
		return s.orderRepo.CompareAndSetStatus(orderID,
			models.StatusAwaitingConfirmation, models.StatusConfirmed,
			func(o *models.Order) {})
	})
}

// Reject cancels an order awaiting confirmation with a merchant-supplied
// reason. A paid order is flagged for refund; the refund itself is a queued
// obligation, not a synchronous call.
func (s *OrderService) Reject(orderID, reason string) error {
	if reason == "" {
		return fmt.Errorf("%w: rejection reason", models.ErrReasonRequired)
	}
	return retryOnConflict(func() error {
		order, err := s.guard(orderID, models.StatusAwaitingConfirmation)
		if err != nil {
			return err
		}

		wasPaid := order.PayStatus == models.PayStatusPaid
		err = s.orderRepo.CompareAndSetStatus(orderID,
			models.StatusAwaitingConfirmation, models.StatusCancelled,
			func(o *models.Order) {
				now := time.Now()
				o.RejectionReason = reason
				o.CancelTime = &now
				if wasPaid {
					o.PayStatus = models.PayStatusRefundPending
				}
			})
		if err != nil {
			return err
		}

		if wasPaid {
			s.publishRefund(*order)
		}
		return nil
	})
}

// Dispatch moves a confirmed order out for delivery.
func (s *OrderService) Dispatch(orderID string) error {
	return retryOnConflict(func() error {
		if _, err := s.guard(orderID, models.StatusConfirmed); err != nil {
			return err
		}
		return s.orderRepo.CompareAndSetStatus(orderID,
			models.StatusConfirmed, models.StatusOutForDelivery,
			func(o *models.Order) {})
	})
}

// Complete marks a delivery as done and stamps the delivery time.
func (s *OrderService) Complete(orderID string) error {
	return retryOnConflict(func() error {
		if _, err := s.guard(orderID, models.StatusOutForDelivery); err != nil {
			return err
		}
		return s.orderRepo.CompareAndSetStatus(orderID,
			models.StatusOutForDelivery, models.StatusCompleted,
			func(o *models.Order) {
				now := time.Now()
				o.DeliveryTime = &now
			})
	})
}

// CancelByCustomer cancels the customer's own order. Allowed only while the
// merchant has not confirmed yet; later the customer must call the shop. A
// paid order is flagged for refund.
func (s *OrderService) CancelByCustomer(customerID, orderID string) error {
	return retryOnConflict(func() error {
		order, err := s.orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order.CustomerID != customerID {
			return models.ErrOrderNotFound
		}
		if !order.Status.CanCustomerCancel() {
			return fmt.Errorf("%w: order %s is %s, customer can no longer cancel",
				models.ErrInvalidState, orderID, order.Status)
		}

		wasPaid := order.PayStatus == models.PayStatusPaid
		err = s.orderRepo.CompareAndSetStatus(orderID,
			order.Status, models.StatusCancelled,
			func(o *models.Order) {
				now := time.Now()
				o.CancelReason = "cancelled by customer"
				o.CancelTime = &now
				if wasPaid {
					o.PayStatus = models.PayStatusRefundPending
				}
			})
		if err != nil {
			return err
		}

		if wasPaid {
			s.publishRefund(*order)
		}
		return nil
	})
}

// publishRefund hands the refund obligation to the queue. Failure is logged
// only; the order already carries REFUND_PENDING, so a sweep over that pay
// status can re-publish later.
func (s *OrderService) publishRefund(order models.Order) {
	if s.refunds == nil {
		return
	}
	if err := s.refunds.PublishRefund(order); err != nil {
		log.Printf("Warning: failed to publish refund obligation for order %s: %v", order.Number, err)
	}
}

// GetByID retrieves an order together with its line snapshots.
func (s *OrderService) GetByID(orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	lines, err := s.orderRepo.GetLines(orderID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines
	return order, nil
}

// ListByCustomer returns the customer's order history, newest first.
func (s *OrderService) ListByCustomer(customerID string) ([]models.Order, error) {
	return s.orderRepo.ListByCustomer(customerID)
}

// Statistics returns the per-status counts shown on the merchant dashboard.
func (s *OrderService) Statistics() (*models.OrderStatistics, error) {
	awaiting, err := s.orderRepo.CountByStatus(models.StatusAwaitingConfirmation)
	if err != nil {
		return nil, err
	}
	confirmed, err := s.orderRepo.CountByStatus(models.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	delivering, err := s.orderRepo.CountByStatus(models.StatusOutForDelivery)
	if err != nil {
		return nil, err
	}
	return &models.OrderStatistics{
		AwaitingConfirmation: awaiting,
		Confirmed:            confirmed,
		OutForDelivery:       delivering,
	}, nil
}

// Repeat copies a past order's lines back into the customer's cart ("order
// again"). Prices are the ones snapshotted on the order.
func (s *OrderService) Repeat(customerID, orderID string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order.CustomerID != customerID {
		return models.ErrOrderNotFound
	}
	lines, err := s.orderRepo.GetLines(orderID)
	if err != nil {
		return err
	}

	cartLines := make([]models.CartLine, 0, len(lines))
	for _, line := range lines {
		cartLines = append(cartLines, models.CartLine{
			CustomerID: customerID,
			DishID:     line.DishID,
			PackageID:  line.PackageID,
			Name:       line.Name,
			Flavor:     line.Flavor,
			Quantity:   line.Quantity,
			Price:      line.Price,
		})
	}
	if err := s.cartRepo.InsertBatch(cartLines); err != nil {
		return fmt.Errorf("failed to refill cart from order %s: %w", orderID, err)
	}
	return nil
}
