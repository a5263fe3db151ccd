package services

import (
	"context"
	"errors"
	"log"
	"time"

	"warung/internal/models"
	"warung/internal/repositories"
)

// ReconcilerConfig holds the sweep schedule. The payment sweep runs often
// with a short grace period; the delivery sweep runs rarely with a long one.
type ReconcilerConfig struct {
	PaymentSweepInterval  time.Duration
	PaymentGracePeriod    time.Duration
	DeliverySweepInterval time.Duration
	DeliveryDeadline      time.Duration
}

// Reconciler is the background process that resolves orders stuck in
// transient states: unpaid orders past their grace period are cancelled, and
// deliveries out for too long are force-completed. The delivery sweep is a
// best-effort heuristic — it cannot know whether the delivery actually
// happened, it only stops the order from dangling forever.
type Reconciler struct {
	orderRepo repositories.OrderRepository
	cfg       ReconcilerConfig
}

// NewReconciler creates a new Reconciler.
func NewReconciler(orderRepo repositories.OrderRepository, cfg ReconcilerConfig) *Reconciler {
	return &Reconciler{
		orderRepo: orderRepo,
		cfg:       cfg,
	}
}

// Run executes both sweeps on their configured intervals until ctx is
// cancelled. Sweeps run on this single goroutine, so they never overlap each
// other; they share the order repository with the serving path and rely on
// the same optimistic status checks.
func (r *Reconciler) Run(ctx context.Context) {
	paymentTicker := time.NewTicker(r.cfg.PaymentSweepInterval)
	defer paymentTicker.Stop()
	deliveryTicker := time.NewTicker(r.cfg.DeliverySweepInterval)
	defer deliveryTicker.Stop()

	log.Printf("Reconciler running (payment sweep every %s, delivery sweep every %s)",
		r.cfg.PaymentSweepInterval, r.cfg.DeliverySweepInterval)

	for {
		select {
		case <-ctx.Done():
			log.Println("Reconciler stopped")
			return
		case <-paymentTicker.C:
			r.SweepPaymentTimeouts()
		case <-deliveryTicker.C:
			r.SweepStalledDeliveries()
		}
	}
}

// SweepPaymentTimeouts cancels orders that sat unpaid past the grace period.
// Losing the race to a late payment completion is expected and skipped
// silently; any other per-order failure is logged and the sweep moves on.
func (r *Reconciler) SweepPaymentTimeouts() {
	cutoff := time.Now().Add(-r.cfg.PaymentGracePeriod)
	orders, err := r.orderRepo.ListByStatusOlderThan(models.StatusPendingPayment, cutoff)
	if err != nil {
		log.Printf("Payment-timeout sweep: listing failed: %v", err)
		return
	}

	for _, order := range orders {
		err := r.orderRepo.CompareAndSetStatus(order.ID,
			models.StatusPendingPayment, models.StatusCancelled,
			func(o *models.Order) {
				now := time.Now()
				o.CancelReason = "payment timeout"
				o.CancelTime = &now
			})
		if errors.Is(err, models.ErrConcurrentModification) {
			// A payment landed between the listing and the write. Their win.
			continue
		}
		if err != nil {
			log.Printf("Payment-timeout sweep: order %s: %v", order.Number, err)
			continue
		}
		log.Printf("Cancelled unpaid order %s (placed %s)", order.Number, order.OrderTime.Format(time.RFC3339))
	}
}

// SweepStalledDeliveries force-completes orders stuck out for delivery past
// the deadline. Best-effort reconciliation, not ground truth.
func (r *Reconciler) SweepStalledDeliveries() {
	cutoff := time.Now().Add(-r.cfg.DeliveryDeadline)
	orders, err := r.orderRepo.ListByStatusOlderThan(models.StatusOutForDelivery, cutoff)
	if err != nil {
		log.Printf("Delivery-stall sweep: listing failed: %v", err)
		return
	}

	for _, order := range orders {
		err := r.orderRepo.CompareAndSetStatus(order.ID,
			models.StatusOutForDelivery, models.StatusCompleted,
			func(o *models.Order) {
				now := time.Now()
				o.DeliveryTime = &now
			})
		if errors.Is(err, models.ErrConcurrentModification) {
			continue
		}
		if err != nil {
			log.Printf("Delivery-stall sweep: order %s: %v", order.Number, err)
			continue
		}
		log.Printf("Force-completed stalled delivery for order %s", order.Number)
	}
}
