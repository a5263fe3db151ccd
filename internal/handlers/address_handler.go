package handlers

import (
	"log"

	"warung/internal/models"
	"warung/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AddressHandler covers the slice of the address book checkout depends on:
// registering an address and reading it back. Thin enough to talk to the
// repository directly.
type AddressHandler struct {
	addressRepo repositories.AddressRepository
	validate    *validator.Validate
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(addressRepo repositories.AddressRepository) *AddressHandler {
	return &AddressHandler{
		addressRepo: addressRepo,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the address routes. The router is expected to
// carry the auth middleware.
func (h *AddressHandler) RegisterRoutes(router fiber.Router) {
	addressRoutes := router.Group("/addresses")
	addressRoutes.Post("/", h.HandleCreate)
	addressRoutes.Get("/:id", h.HandleGet)
}

// HandleCreate stores a delivery address for the authenticated customer.
func (h *AddressHandler) HandleCreate(c *fiber.Ctx) error {
	var address models.Address
	if err := c.BodyParser(&address); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(address); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	address.CustomerID = customerID(c)
	if err := h.addressRepo.Create(&address); err != nil {
		log.Printf("Error creating address: %v", err)
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(address)
}

// HandleGet returns one of the customer's own addresses.
func (h *AddressHandler) HandleGet(c *fiber.Ctx) error {
	address, err := h.addressRepo.GetByID(c.Params("id"), customerID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(address)
}
