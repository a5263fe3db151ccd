package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPendingPayment       OrderStatus = "PENDING_PAYMENT"
	StatusAwaitingConfirmation OrderStatus = "AWAITING_CONFIRMATION"
	StatusConfirmed            OrderStatus = "CONFIRMED"
	StatusOutForDelivery       OrderStatus = "OUT_FOR_DELIVERY"
	StatusCompleted            OrderStatus = "COMPLETED"
	StatusCancelled            OrderStatus = "CANCELLED"
)

// ordinal gives the position of a status along the happy path. CANCELLED sits
// outside the path and maps to -1.
func (s OrderStatus) ordinal() int {
	switch s {
	case StatusPendingPayment:
		return 1
	case StatusAwaitingConfirmation:
		return 2
	case StatusConfirmed:
		return 3
	case StatusOutForDelivery:
		return 4
	case StatusCompleted:
		return 5
	}
	return -1
}

// IsTerminal reports whether no further transition is legal out of s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanCustomerCancel reports whether a customer may still cancel an order in
// this state. Once the merchant has confirmed, only the merchant can cancel.
func (s OrderStatus) CanCustomerCancel() bool {
	o := s.ordinal()
	return o >= 1 && o <= StatusAwaitingConfirmation.ordinal()
}

func (s OrderStatus) String() string {
	return string(s)
}

// PayStatus is the payment state of an order, tracked alongside OrderStatus.
type PayStatus string

const (
	PayStatusUnpaid        PayStatus = "UNPAID"
	PayStatusPaid          PayStatus = "PAID"
	PayStatusRefundPending PayStatus = "REFUND_PENDING"
	PayStatusRefunded      PayStatus = "REFUNDED"
)

// Order represents a customer order. Orders are permanent records: they are
// never physically deleted, only moved between statuses.
type Order struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Number     string          `json:"number" gorm:"uniqueIndex;type:varchar(32)"`
	CustomerID string          `json:"customer_id" gorm:"index;type:varchar(36)"`
	Consignee  string          `json:"consignee"`
	Phone      string          `json:"phone"`
	Address    string          `json:"address"` // address snapshot, not a live reference
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(10,2)"`
	Status     OrderStatus     `json:"status" gorm:"index;type:varchar(32)"`
	PayStatus  PayStatus       `json:"pay_status" gorm:"type:varchar(16)"`

	OrderTime       time.Time  `json:"order_time"`
	CheckoutTime    *time.Time `json:"checkout_time,omitempty"`
	DeliveryTime    *time.Time `json:"delivery_time,omitempty"`
	CancelTime      *time.Time `json:"cancel_time,omitempty"`
	CancelReason    string     `json:"cancel_reason,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`

	Lines []OrderLine `json:"lines,omitempty" gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderLine is an immutable snapshot of one cart line, taken at checkout time.
// Later cart or menu changes never touch it.
type OrderLine struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"order_id" gorm:"index;type:varchar(36)"`
	DishID    string          `json:"dish_id,omitempty" gorm:"type:varchar(36)"`
	PackageID string          `json:"package_id,omitempty" gorm:"type:varchar(36)"`
	Name      string          `json:"name"`
	Flavor    string          `json:"flavor,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"` // unit price at checkout
}

// OrderStatistics holds per-status order counts for the merchant dashboard.
type OrderStatistics struct {
	AwaitingConfirmation int64 `json:"awaiting_confirmation"`
	Confirmed            int64 `json:"confirmed"`
	OutForDelivery       int64 `json:"out_for_delivery"`
}
