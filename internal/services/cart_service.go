package services

import (
	"fmt"

	"warung/internal/models"
	"warung/internal/repositories"
)

// CartService handles business logic for the per-customer cart.
type CartService struct {
	cartRepo repositories.CartRepository
	menuRepo repositories.MenuRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, menuRepo repositories.MenuRepository) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		menuRepo: menuRepo,
	}
}

// AddItemRequest identifies the menu item a customer is adding. Exactly one
// of DishID or PackageID must be set.
type AddItemRequest struct {
	DishID    string `json:"dish_id" validate:"required_without=PackageID,excluded_with=PackageID"`
	PackageID string `json:"package_id" validate:"required_without=DishID,excluded_with=DishID"`
	Flavor    string `json:"flavor"`
}

func (r AddItemRequest) itemID() string {
	if r.DishID != "" {
		return r.DishID
	}
	return r.PackageID
}

func (r AddItemRequest) key() models.ItemKey {
	return models.ItemKey{DishID: r.DishID, PackageID: r.PackageID, Flavor: r.Flavor}
}

// Add puts one unit of the requested item into the customer's cart,
// snapshotting the item's current name and price. Adding the same item
// variant again increments the existing line.
func (s *CartService) Add(customerID string, req AddItemRequest) error {
	item, err := s.menuRepo.GetByID(req.itemID())
	if err != nil {
		return err
	}
	if !item.OnSale {
		return fmt.Errorf("%w: %s is not on sale", models.ErrItemNotFound, item.Name)
	}

	line := models.CartLine{
		CustomerID: customerID,
		DishID:     req.DishID,
		PackageID:  req.PackageID,
		Name:       item.Name,
		Flavor:     req.Flavor,
		Quantity:   1,
		Price:      item.Price,
	}
	if err := s.cartRepo.AddOrIncrement(line); err != nil {
		return fmt.Errorf("failed to add item to cart: %w", err)
	}
	return nil
}

// Decrement removes one unit of the item from the cart; the line disappears
// when its quantity reaches zero.
func (s *CartService) Decrement(customerID string, req AddItemRequest) error {
	if err := s.cartRepo.Decrement(customerID, req.key()); err != nil {
		return fmt.Errorf("failed to decrement cart item: %w", err)
	}
	return nil
}

// List returns the customer's current cart lines.
func (s *CartService) List(customerID string) ([]models.CartLine, error) {
	return s.cartRepo.List(customerID)
}

// Clear empties the customer's cart.
func (s *CartService) Clear(customerID string) error {
	return s.cartRepo.Clear(customerID)
}
