package services_test

import (
	"context"
	"testing"
	"time"

	"warung/internal/models"
	"warung/internal/repositories"
	"warung/internal/services"

	"github.com/stretchr/testify/assert"
)

func seedStaleOrder(t *testing.T, repo repositories.OrderRepository, number string, status models.OrderStatus, age time.Duration) *models.Order {
	t.Helper()
	stale := time.Now().Add(-age)
	order := &models.Order{
		Number:     number,
		CustomerID: "cust-1",
		Amount:     price("12.00"),
		Status:     status,
		PayStatus:  models.PayStatusUnpaid,
		OrderTime:  stale,
		CreatedAt:  stale,
		UpdatedAt:  stale,
	}
	if err := repo.Create(order, nil); err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return order
}

func TestSweepPaymentTimeouts(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	old := seedStaleOrder(t, repo, "old-unpaid", models.StatusPendingPayment, 30*time.Minute)
	fresh := seedStaleOrder(t, repo, "fresh-unpaid", models.StatusPendingPayment, 5*time.Minute)
	paid := seedStaleOrder(t, repo, "old-paid", models.StatusAwaitingConfirmation, 30*time.Minute)

	r := services.NewReconciler(repo, services.ReconcilerConfig{PaymentGracePeriod: 15 * time.Minute})
	r.SweepPaymentTimeouts()

	cancelled, _ := repo.GetByID(old.ID)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, "payment timeout", cancelled.CancelReason)
	assert.NotNil(t, cancelled.CancelTime)

	untouched, _ := repo.GetByID(fresh.ID)
	assert.Equal(t, models.StatusPendingPayment, untouched.Status)

	awaiting, _ := repo.GetByID(paid.ID)
	assert.Equal(t, models.StatusAwaitingConfirmation, awaiting.Status)
}

func TestSweepStalledDeliveries(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	stalled := seedStaleOrder(t, repo, "stalled", models.StatusOutForDelivery, 13*time.Hour)
	recent := seedStaleOrder(t, repo, "recent", models.StatusOutForDelivery, time.Hour)

	r := services.NewReconciler(repo, services.ReconcilerConfig{DeliveryDeadline: 12 * time.Hour})
	r.SweepStalledDeliveries()

	done, _ := repo.GetByID(stalled.ID)
	assert.Equal(t, models.StatusCompleted, done.Status)
	assert.NotNil(t, done.DeliveryTime)

	inFlight, _ := repo.GetByID(recent.ID)
	assert.Equal(t, models.StatusOutForDelivery, inFlight.Status)
	assert.Nil(t, inFlight.DeliveryTime)
}

// racingOrderRepository lets a payment land between the sweep's listing and
// its compare-and-set, to exercise the lost-race path.
type racingOrderRepository struct {
	*repositories.MockOrderRepository
	payBeforeCAS map[string]bool
}

func (r *racingOrderRepository) CompareAndSetStatus(id string, expected, next models.OrderStatus, mutate func(*models.Order)) error {
	if r.payBeforeCAS[id] {
		delete(r.payBeforeCAS, id)
		err := r.MockOrderRepository.CompareAndSetStatus(id,
			models.StatusPendingPayment, models.StatusAwaitingConfirmation,
			func(o *models.Order) { o.PayStatus = models.PayStatusPaid })
		if err != nil {
			return err
		}
	}
	return r.MockOrderRepository.CompareAndSetStatus(id, expected, next, mutate)
}

func TestSweepPaymentTimeouts_LostRaceLeavesOrderAlone(t *testing.T) {
	repo := &racingOrderRepository{
		MockOrderRepository: repositories.NewMockOrderRepository(),
		payBeforeCAS:        map[string]bool{},
	}
	order := seedStaleOrder(t, repo, "raced", models.StatusPendingPayment, 30*time.Minute)
	repo.payBeforeCAS[order.ID] = true

	r := services.NewReconciler(repo, services.ReconcilerConfig{PaymentGracePeriod: 15 * time.Minute})
	r.SweepPaymentTimeouts()

	current, _ := repo.GetByID(order.ID)
	assert.Equal(t, models.StatusAwaitingConfirmation, current.Status)
	assert.Equal(t, models.PayStatusPaid, current.PayStatus)
	assert.Empty(t, current.CancelReason)
}

func TestReconcilerRunStopsOnCancel(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	old := seedStaleOrder(t, repo, "ticked", models.StatusPendingPayment, 30*time.Minute)

	r := services.NewReconciler(repo, services.ReconcilerConfig{
		PaymentSweepInterval:  10 * time.Millisecond,
		PaymentGracePeriod:    15 * time.Minute,
		DeliverySweepInterval: time.Hour,
		DeliveryDeadline:      12 * time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		order, err := repo.GetByID(old.ID)
		return err == nil && order.Status == models.StatusCancelled
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconciler did not stop after context cancellation")
	}
}
