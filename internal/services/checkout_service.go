package services

import (
	"fmt"
	"log"
	"time"

	"warung/internal/models"
	"warung/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DistanceEstimator resolves the driving distance in meters between two
// addresses. Implemented by pkg/geocode against a map provider.
type DistanceEstimator interface {
	EstimateDistance(fromAddress, toAddress string) (int, error)
}

// CheckoutConfig holds the merchant-side checkout settings.
type CheckoutConfig struct {
	// ShopAddress is the merchant's location, origin of the distance check.
	ShopAddress string
	// MaxDistanceMeters is the delivery radius ceiling. Zero or negative
	// disables the distance check entirely.
	MaxDistanceMeters int
}

// CheckoutService converts a non-empty cart plus a chosen address into a new
// order in PENDING_PAYMENT. The cart is deliberately left untouched here: it
// is only cleared once payment is confirmed, so an abandoned payment does not
// cost the customer their cart.
type CheckoutService struct {
	cartRepo    repositories.CartRepository
	addressRepo repositories.AddressRepository
	orderRepo   repositories.OrderRepository
	estimator   DistanceEstimator
	cfg         CheckoutConfig
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	cartRepo repositories.CartRepository,
	addressRepo repositories.AddressRepository,
	orderRepo repositories.OrderRepository,
	estimator DistanceEstimator,
	cfg CheckoutConfig,
) *CheckoutService {
	return &CheckoutService{
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		orderRepo:   orderRepo,
		estimator:   estimator,
		cfg:         cfg,
	}
}

// CheckoutResult is what the ordering app needs to start the payment flow.
type CheckoutResult struct {
	OrderID   string          `json:"order_id"`
	Number    string          `json:"number"`
	Amount    decimal.Decimal `json:"amount"`
	OrderTime time.Time       `json:"order_time"`
}

// Checkout validates the address and cart, snapshots the cart into immutable
// order lines at their stored prices, and persists order plus lines
// atomically.
func (s *CheckoutService) Checkout(customerID, addressID string) (*CheckoutResult, error) {
	address, err := s.addressRepo.GetByID(addressID, customerID)
	if err != nil {
		return nil, err
	}

	lines, err := s.cartRepo.List(customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, models.ErrEmptyCart
	}

	if err := s.checkDeliveryRange(address.FullText()); err != nil {
		return nil, err
	}

	total := decimal.Zero
	orderLines := make([]models.OrderLine, 0, len(lines))
	for _, line := range lines {
		orderLines = append(orderLines, models.OrderLine{
			DishID:    line.DishID,
			PackageID: line.PackageID,
			Name:      line.Name,
			Flavor:    line.Flavor,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	order := models.Order{
		Number:     newOrderNumber(),
		CustomerID: customerID,
		Consignee:  address.Consignee,
		Phone:      address.Phone,
		Address:    address.FullText(),
		Amount:     total,
		Status:     models.StatusPendingPayment,
		PayStatus:  models.PayStatusUnpaid,
		OrderTime:  time.Now(),
	}

	if err := s.orderRepo.Create(&order, orderLines); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	return &CheckoutResult{
		OrderID:   order.ID,
		Number:    order.Number,
		Amount:    order.Amount,
		OrderTime: order.OrderTime,
	}, nil
}

// checkDeliveryRange fails closed: an estimator error blocks checkout the
// same way an excessive distance does.
func (s *CheckoutService) checkDeliveryRange(customerAddress string) error {
	if s.cfg.MaxDistanceMeters <= 0 || s.estimator == nil {
		return nil
	}
	distance, err := s.estimator.EstimateDistance(s.cfg.ShopAddress, customerAddress)
	if err != nil {
		log.Printf("Distance estimation failed: %v", err)
		return fmt.Errorf("%w: distance check failed", models.ErrOutOfDeliveryRange)
	}
	if distance > s.cfg.MaxDistanceMeters {
		return fmt.Errorf("%w: %dm exceeds %dm", models.ErrOutOfDeliveryRange, distance, s.cfg.MaxDistanceMeters)
	}
	return nil
}

// newOrderNumber builds the externally visible order number: millisecond
// timestamp plus a random suffix, unique in practice at single-merchant
// scale and still roughly sortable by placement time.
func newOrderNumber() string {
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}
