package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one entry in a customer's cart. Exactly one of DishID or
// PackageID is set. Price is snapshotted when the line is added; checkout uses
// the stored price, it does not re-price.
type CartLine struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID string          `json:"customer_id" gorm:"index;type:varchar(36)"`
	DishID     string          `json:"dish_id,omitempty" gorm:"type:varchar(36)"`
	PackageID  string          `json:"package_id,omitempty" gorm:"type:varchar(36)"`
	Name       string          `json:"name"`
	Flavor     string          `json:"flavor,omitempty"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ItemKey identifies the menu item (and flavor variant) a cart line refers to.
// Lines for the same key are merged by incrementing quantity.
type ItemKey struct {
	DishID    string
	PackageID string
	Flavor    string
}

// Matches reports whether the line refers to the same item variant as key.
func (l CartLine) Matches(key ItemKey) bool {
	return l.DishID == key.DishID && l.PackageID == key.PackageID && l.Flavor == key.Flavor
}
