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

// PaymentService reacts to payment-success callbacks from the external
// payment provider. Only the local state transition is in scope here; the
// payment protocol itself lives behind the gateway.
type PaymentService struct {
	orderRepo  repositories.OrderRepository
	cartRepo   repositories.CartRepository
	dispatcher *notify.Dispatcher
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	dispatcher *notify.Dispatcher,
) *PaymentService {
	return &PaymentService{
		orderRepo:  orderRepo,
		cartRepo:   cartRepo,
		dispatcher: dispatcher,
	}
}

// HandlePaymentSuccess processes a payment confirmation for the order number
// carried in the provider's trade reference. Idempotent: a duplicate signal
// for an order already past PENDING_PAYMENT is a no-op, not an error, so the
// order cannot double-transition and the cart cannot double-clear.
func (s *PaymentService) HandlePaymentSuccess(tradeReference string) error {
	order, err := s.orderRepo.GetByNumber(tradeReference)
	if err != nil {
		return err
	}
	if order.Status != models.StatusPendingPayment {
		log.Printf("Ignoring duplicate payment signal for order %s (status %s)", order.Number, order.Status)
		return nil
	}

	err = s.orderRepo.CompareAndSetStatus(order.ID,
		models.StatusPendingPayment, models.StatusAwaitingConfirmation,
		func(o *models.Order) {
			now := time.Now()
			o.PayStatus = models.PayStatusPaid
			o.CheckoutTime = &now
		})
	if errors.Is(err, models.ErrConcurrentModification) {
		// Someone beat us to it — either a duplicate callback or the payment
		// timeout sweep. Re-read to tell a settled duplicate from a real
		// conflict.
		current, readErr := s.orderRepo.GetByID(order.ID)
		if readErr != nil {
			return readErr
		}
		if current.Status != models.StatusPendingPayment {
			return nil
		}
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to mark order %s paid: %w", order.Number, err)
	}

	if err := s.cartRepo.Clear(order.CustomerID); err != nil {
		// The order is already paid; losing the cart clear is annoying but
		// not worth failing the callback over.
		log.Printf("Warning: failed to clear cart for customer %s: %v", order.CustomerID, err)
	}

	s.dispatcher.Broadcast(notify.Event{
		Type:    notify.EventNewOrder,
		OrderID: order.ID,
		Message: "order number: " + order.Number,
	})
	return nil
}

// Remind pushes a reminder event for an order the customer is waiting on; the
// merchant clients see it as a nudge to confirm.
func (s *PaymentService) Remind(orderID string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}

	s.dispatcher.Broadcast(notify.Event{
		Type:    notify.EventReminder,
		OrderID: order.ID,
		Message: "order number: " + order.Number,
	})
	return nil
}
