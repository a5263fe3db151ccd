package models

import "gorm.io/gorm"

// Address is a delivery address from a customer's address book. Checkout
// copies its fields into the order; the order never references it afterwards.
type Address struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID string `json:"customer_id" gorm:"index;type:varchar(36)"`
	Consignee  string `json:"consignee" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Province   string `json:"province"`
	City       string `json:"city"`
	District   string `json:"district"`
	Detail     string `json:"detail" validate:"required"`
	gorm.Model `json:"-"`
}

// FullText joins the address parts into the single line handed to the
// distance estimator and snapshotted onto orders.
func (a Address) FullText() string {
	return a.Province + a.City + a.District + a.Detail
}
