package handlers

import (
	"log"

	"warung/internal/models"
	"warung/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// MenuHandler serves the menu to the ordering app and lets the admin app
// manage it. Thin enough that it talks to the repository directly.
type MenuHandler struct {
	menuRepo repositories.MenuRepository
	validate *validator.Validate
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(menuRepo repositories.MenuRepository) *MenuHandler {
	return &MenuHandler{
		menuRepo: menuRepo,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the customer-facing menu routes.
func (h *MenuHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/menu", h.HandleList)
}

// RegisterAdminRoutes registers the merchant menu-management routes.
func (h *MenuHandler) RegisterAdminRoutes(router fiber.Router) {
	menuRoutes := router.Group("/menu")
	menuRoutes.Post("/", h.HandleCreate)
	menuRoutes.Put("/", h.HandleUpdate)
}

// HandleList returns all menu items.
func (h *MenuHandler) HandleList(c *fiber.Ctx) error {
	items, err := h.menuRepo.GetAll()
	if err != nil {
		log.Printf("Error listing menu: %v", err)
		return errorJSON(c, err)
	}
	return c.JSON(items)
}

// HandleCreate adds a menu item.
func (h *MenuHandler) HandleCreate(c *fiber.Ctx) error {
	var item models.MenuItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	if err := h.menuRepo.Create(&item); err != nil {
		log.Printf("Error creating menu item: %v", err)
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdate saves changes to a menu item (price, on-sale flag, name).
func (h *MenuHandler) HandleUpdate(c *fiber.Ctx) error {
	var item models.MenuItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.menuRepo.Update(&item); err != nil {
		log.Printf("Error updating menu item: %v", err)
		return errorJSON(c, err)
	}
	return c.JSON(item)
}
