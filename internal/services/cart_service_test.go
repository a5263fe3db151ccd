package services_test

import (
	"testing"

	"warung/internal/models"
	"warung/internal/repositories"
	"warung/internal/services"

	"github.com/stretchr/testify/assert"
)

func newCartFixture(t *testing.T) (*services.CartService, *repositories.MockMenuRepository) {
	t.Helper()
	menuRepo := repositories.NewMockMenuRepository()
	assert.NoError(t, menuRepo.Create(&models.MenuItem{
		ID: "dish-1", Kind: models.KindDish, Name: "Nasi Goreng", Price: price("10.00"), OnSale: true,
	}))
	assert.NoError(t, menuRepo.Create(&models.MenuItem{
		ID: "pkg-1", Kind: models.KindPackage, Name: "Family Set", Price: price("15.00"), OnSale: true,
	}))
	assert.NoError(t, menuRepo.Create(&models.MenuItem{
		ID: "dish-off", Kind: models.KindDish, Name: "Seasonal Special", Price: price("9.00"), OnSale: false,
	}))
	return services.NewCartService(repositories.NewMockCartRepository(), menuRepo), menuRepo
}

func TestCartAdd_SnapshotsNameAndPrice(t *testing.T) {
	svc, menuRepo := newCartFixture(t)

	assert.NoError(t, svc.Add("cust-1", services.AddItemRequest{DishID: "dish-1"}))

	// Reprice the dish after the add; the cart keeps the price it saw.
	item, _ := menuRepo.GetByID("dish-1")
	item.Price = price("99.00")
	assert.NoError(t, menuRepo.Update(item))

	cart, err := svc.List("cust-1")
	assert.NoError(t, err)
	assert.Len(t, cart, 1)
	assert.Equal(t, "Nasi Goreng", cart[0].Name)
	assert.True(t, cart[0].Price.Equal(price("10.00")))
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestCartAdd_SameVariantIncrements(t *testing.T) {
	svc, _ := newCartFixture(t)

	assert.NoError(t, svc.Add("cust-1", services.AddItemRequest{DishID: "dish-1", Flavor: "spicy"}))
	assert.NoError(t, svc.Add("cust-1", services.AddItemRequest{DishID: "dish-1", Flavor: "spicy"}))
	// A different flavor is a separate line.
	assert.NoError(t, svc.Add("cust-1", services.AddItemRequest{DishID: "dish-1", Flavor: "mild"}))

	cart, err := svc.List("cust-1")
	assert.NoError(t, err)
	assert.Len(t, cart, 2)

	quantities := map[string]int{}
	for _, line := range cart {
		quantities[line.Flavor] = line.Quantity
	}
	assert.Equal(t, 2, quantities["spicy"])
	assert.Equal(t, 1, quantities["mild"])
}

func TestCartAdd_UnknownOrOffSaleItem(t *testing.T) {
	svc, _ := newCartFixture(t)

	assert.ErrorIs(t, svc.Add("cust-1", services.AddItemRequest{DishID: "nope"}), models.ErrItemNotFound)
	assert.ErrorIs(t, svc.Add("cust-1", services.AddItemRequest{DishID: "dish-off"}), models.ErrItemNotFound)

	cart, _ := svc.List("cust-1")
	assert.Empty(t, cart)
}

func TestCartDecrement(t *testing.T) {
	svc, _ := newCartFixture(t)
	req := services.AddItemRequest{PackageID: "pkg-1"}

	assert.NoError(t, svc.Add("cust-1", req))
	assert.NoError(t, svc.Add("cust-1", req))

	assert.NoError(t, svc.Decrement("cust-1", req))
	cart, _ := svc.List("cust-1")
	assert.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)

	// Decrementing the last unit removes the line.
	assert.NoError(t, svc.Decrement("cust-1", req))
	cart, _ = svc.List("cust-1")
	assert.Empty(t, cart)

	// Decrementing something not in the cart is a no-op.
	assert.NoError(t, svc.Decrement("cust-1", services.AddItemRequest{DishID: "dish-1"}))
}

func TestCartIsPerCustomer(t *testing.T) {
	svc, _ := newCartFixture(t)

	assert.NoError(t, svc.Add("cust-1", services.AddItemRequest{DishID: "dish-1"}))
	assert.NoError(t, svc.Add("cust-2", services.AddItemRequest{PackageID: "pkg-1"}))

	assert.NoError(t, svc.Clear("cust-1"))

	first, _ := svc.List("cust-1")
	assert.Empty(t, first)
	second, _ := svc.List("cust-2")
	assert.Len(t, second, 1)
}
