package handlers

import (
	"log"

	"warung/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the customer's cart.
type CartHandler struct {
	cartService *services.CartService
	validate    *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleList)
	cartRoutes.Post("/items", h.HandleAdd)
	cartRoutes.Post("/items/decrement", h.HandleDecrement)
	cartRoutes.Delete("/", h.HandleClear)
}

// HandleList returns the current cart contents.
func (h *CartHandler) HandleList(c *fiber.Ctx) error {
	lines, err := h.cartService.List(customerID(c))
	if err != nil {
		log.Printf("Error listing cart: %v", err)
		return errorJSON(c, err)
	}
	return c.JSON(lines)
}

// HandleAdd adds one unit of a menu item to the cart.
func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var req services.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Exactly one of dish_id or package_id is required",
			"error":   err.Error(),
		})
	}

	if err := h.cartService.Add(customerID(c), req); err != nil {
		log.Printf("Error adding to cart: %v", err)
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Item added"})
}

// HandleDecrement removes one unit of a menu item from the cart.
func (h *CartHandler) HandleDecrement(c *fiber.Ctx) error {
	var req services.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.cartService.Decrement(customerID(c), req); err != nil {
		log.Printf("Error decrementing cart item: %v", err)
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item decremented"})
}

// HandleClear empties the cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	if err := h.cartService.Clear(customerID(c)); err != nil {
		log.Printf("Error clearing cart: %v", err)
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}
