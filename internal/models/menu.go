package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MenuItemKind distinguishes single dishes from fixed packages (set meals).
type MenuItemKind string

const (
	KindDish    MenuItemKind = "dish"
	KindPackage MenuItemKind = "package"
)

// MenuItem is a sellable item on the merchant's menu. The cart snapshots its
// name and price at add time.
type MenuItem struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Kind       MenuItemKind    `json:"kind" gorm:"type:varchar(16)" validate:"required,oneof=dish package"`
	Name       string          `json:"name" validate:"required,min=1,max=100"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	OnSale     bool            `json:"on_sale"`
	gorm.Model `json:"-"`
}
