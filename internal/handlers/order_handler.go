package handlers

import (
	"errors"
	"log"

	"warung/internal/models"
	"warung/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for the order lifecycle, on both the
// customer app surface and the merchant admin surface.
type OrderHandler struct {
	checkoutService *services.CheckoutService
	orderService    *services.OrderService
	paymentService  *services.PaymentService
	validate        *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(
	checkoutService *services.CheckoutService,
	orderService *services.OrderService,
	paymentService *services.PaymentService,
) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
		paymentService:  paymentService,
		validate:        validator.New(),
	}
}

// RegisterCustomerRoutes registers the ordering-app routes. The router is
// expected to carry the auth middleware.
func (h *OrderHandler) RegisterCustomerRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/checkout", h.HandleCheckout)
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Post("/:id/cancel", h.HandleCustomerCancel)
	orderRoutes.Post("/:id/reminder", h.HandleReminder)
	orderRoutes.Post("/:id/repeat", h.HandleRepeat)
}

// RegisterAdminRoutes registers the merchant admin routes.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	adminRoutes := router.Group("/orders")
	adminRoutes.Get("/statistics", h.HandleStatistics)
	adminRoutes.Put("/:id/confirm", h.HandleConfirm)
	adminRoutes.Put("/:id/reject", h.HandleReject)
	adminRoutes.Put("/:id/delivery", h.HandleDispatch)
	adminRoutes.Put("/:id/complete", h.HandleComplete)
}

// RegisterPaymentRoutes registers the inbound payment-gateway callback.
func (h *OrderHandler) RegisterPaymentRoutes(router fiber.Router) {
	router.Post("/payments/callback", h.HandlePaymentCallback)
}

// statusForError maps the core's sentinel errors to HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrAddressNotFound),
		errors.Is(err, models.ErrItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrReasonRequired),
		errors.Is(err, models.ErrOutOfDeliveryRange):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrInvalidState),
		errors.Is(err, models.ErrConcurrentModification):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"message": err.Error(),
	})
}

// customerID pulls the authenticated customer out of the request context set
// by the auth middleware. Services receive it as an explicit parameter.
func customerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// CheckoutRequest is the body for submitting the cart as an order.
type CheckoutRequest struct {
	AddressID string `json:"address_id" validate:"required"`
}

// HandleCheckout converts the customer's cart into a PENDING_PAYMENT order.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	result, err := h.checkoutService.Checkout(customerID(c), req.AddressID)
	if err != nil {
		log.Printf("Checkout failed for customer %s: %v", customerID(c), err)
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleListOrders returns the customer's order history.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.ListByCustomer(customerID(c))
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return errorJSON(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrder returns one order with its lines.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.orderService.GetByID(c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	if order.CustomerID != customerID(c) {
		return errorJSON(c, models.ErrOrderNotFound)
	}
	return c.JSON(order)
}

// HandleCustomerCancel cancels the customer's own order while that is still
// allowed.
func (h *OrderHandler) HandleCustomerCancel(c *fiber.Ctx) error {
	if err := h.orderService.CancelByCustomer(customerID(c), c.Params("id")); err != nil {
		log.Printf("Customer cancel failed for order %s: %v", c.Params("id"), err)
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order cancelled"})
}

// HandleReminder nudges the merchant about an order.
func (h *OrderHandler) HandleReminder(c *fiber.Ctx) error {
	if err := h.paymentService.Remind(c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reminder sent"})
}

// HandleRepeat refills the cart from a past order.
func (h *OrderHandler) HandleRepeat(c *fiber.Ctx) error {
	if err := h.orderService.Repeat(customerID(c), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cart refilled from order"})
}

// PaymentCallbackRequest is the body posted by the payment gateway adapter.
type PaymentCallbackRequest struct {
	TradeReference string `json:"trade_reference" validate:"required"`
}

// HandlePaymentCallback applies a payment-success signal. Safe to deliver
// more than once.
func (h *OrderHandler) HandlePaymentCallback(c *fiber.Ctx) error {
	var req PaymentCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	if err := h.paymentService.HandlePaymentSuccess(req.TradeReference); err != nil {
		log.Printf("Payment callback failed for %s: %v", req.TradeReference, err)
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment recorded"})
}

// HandleStatistics returns current per-status order counts.
func (h *OrderHandler) HandleStatistics(c *fiber.Ctx) error {
	stats, err := h.orderService.Statistics()
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(stats)
}

// HandleConfirm has the merchant take an order.
func (h *OrderHandler) HandleConfirm(c *fiber.Ctx) error {
	if err := h.orderService.Confirm(c.Params("id")); err != nil {
		log.Printf("Confirm failed for order %s: %v", c.Params("id"), err)
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order confirmed"})
}

// RejectRequest carries the mandatory rejection reason.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// HandleReject has the merchant reject an order awaiting confirmation.
func (h *OrderHandler) HandleReject(c *fiber.Ctx) error {
	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.orderService.Reject(c.Params("id"), req.Reason); err != nil {
		log.Printf("Reject failed for order %s: %v", c.Params("id"), err)
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order rejected"})
}

// HandleDispatch sends a confirmed order out for delivery.
func (h *OrderHandler) HandleDispatch(c *fiber.Ctx) error {
	if err := h.orderService.Dispatch(c.Params("id")); err != nil {
		log.Printf("Dispatch failed for order %s: %v", c.Params("id"), err)
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order out for delivery"})
}

// HandleComplete marks a delivery done.
func (h *OrderHandler) HandleComplete(c *fiber.Ctx) error {
	if err := h.orderService.Complete(c.Params("id")); err != nil {
		log.Printf("Complete failed for order %s: %v", c.Params("id"), err)
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order completed"})
}
