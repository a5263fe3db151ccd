package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"warung/internal/handlers"
	"warung/internal/models"
	"warung/internal/notify"
	"warung/internal/repositories"
	"warung/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectingChannel records broadcasts so the tests can assert on merchant
// notifications.
type collectingChannel struct {
	mu     sync.Mutex
	events []notify.Event
}

func (c *collectingChannel) Send(event notify.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *collectingChannel) countByType(et notify.EventType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.Type == et {
			n++
		}
	}
	return n
}

type testEnv struct {
	app      *fiber.App
	cartRepo *repositories.MockCartRepository
	merchant *collectingChannel
}

// newTestEnv wires the full HTTP surface against in-memory repositories. Auth
// is replaced by a middleware that injects the customer from a header, the
// same local the real JWT middleware sets.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cartRepo := repositories.NewMockCartRepository()
	orderRepo := repositories.NewMockOrderRepository()
	addressRepo := repositories.NewMockAddressRepository()
	menuRepo := repositories.NewMockMenuRepository()

	require.NoError(t, menuRepo.Create(&models.MenuItem{
		ID: "dish-1", Kind: models.KindDish, Name: "Nasi Goreng",
		Price: decimal.RequireFromString("10.00"), OnSale: true,
	}))
	require.NoError(t, menuRepo.Create(&models.MenuItem{
		ID: "pkg-1", Kind: models.KindPackage, Name: "Family Set",
		Price: decimal.RequireFromString("15.00"), OnSale: true,
	}))
	require.NoError(t, addressRepo.Create(&models.Address{
		ID: "addr-1", CustomerID: "cust-1", Consignee: "Budi",
		Phone: "0812", Detail: "Jl. Merdeka 1",
	}))

	dispatcher := notify.NewDispatcher()
	merchant := &collectingChannel{}
	dispatcher.Register(merchant)

	cartService := services.NewCartService(cartRepo, menuRepo)
	checkoutService := services.NewCheckoutService(cartRepo, addressRepo, orderRepo, nil, services.CheckoutConfig{})
	orderService := services.NewOrderService(orderRepo, cartRepo, dispatcher, nil)
	paymentService := services.NewPaymentService(orderRepo, cartRepo, dispatcher)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if id := c.Get("X-Test-Customer"); id != "" {
			c.Locals("user_id", id)
		}
		return c.Next()
	})

	orderHandler := handlers.NewOrderHandler(checkoutService, orderService, paymentService)
	cartHandler := handlers.NewCartHandler(cartService)
	addressHandler := handlers.NewAddressHandler(addressRepo)
	api := app.Group("/api/v1")
	cartHandler.RegisterRoutes(api)
	addressHandler.RegisterRoutes(api)
	orderHandler.RegisterCustomerRoutes(api)
	orderHandler.RegisterPaymentRoutes(api)
	orderHandler.RegisterAdminRoutes(app.Group("/admin/v1"))

	return &testEnv{app: app, cartRepo: cartRepo, merchant: merchant}
}

func (e *testEnv) do(t *testing.T, method, path, customer string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if customer != "" {
		req.Header.Set("X-Test-Customer", customer)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}
	return resp, parsed
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	// Build the cart: one dish, a package twice.
	for _, body := range []map[string]any{
		{"dish_id": "dish-1"},
		{"package_id": "pkg-1"},
		{"package_id": "pkg-1"},
	} {
		resp, _ := env.do(t, fiber.MethodPost, "/api/v1/cart/items", "cust-1", body)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, checkout := env.do(t, fiber.MethodPost, "/api/v1/orders/checkout", "cust-1",
		map[string]any{"address_id": "addr-1"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	orderID := checkout["order_id"].(string)
	number := checkout["number"].(string)
	total, err := decimal.NewFromString(checkout["amount"].(string))
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("40.00")))

	// The cart survives checkout; only confirmed payment clears it.
	cart, _ := env.cartRepo.List("cust-1")
	assert.Len(t, cart, 2)

	resp, _ = env.do(t, fiber.MethodPost, "/api/v1/payments/callback", "",
		map[string]any{"trade_reference": number})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	cart, _ = env.cartRepo.List("cust-1")
	assert.Empty(t, cart)
	assert.Eventually(t, func() bool {
		return env.merchant.countByType(notify.EventNewOrder) == 1
	}, time.Second, 5*time.Millisecond)

	// A replayed callback changes nothing.
	resp, _ = env.do(t, fiber.MethodPost, "/api/v1/payments/callback", "",
		map[string]any{"trade_reference": number})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, env.merchant.countByType(notify.EventNewOrder))

	// Merchant side: confirm, dispatch, complete.
	for _, step := range []string{"confirm", "delivery", "complete"} {
		resp, _ = env.do(t, fiber.MethodPut, "/admin/v1/orders/"+orderID+"/"+step, "", nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "step %s", step)
	}

	resp, order := env.do(t, fiber.MethodGet, "/api/v1/orders/"+orderID, "cust-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, string(models.StatusCompleted), order["status"])
	assert.Len(t, order["lines"], 2)
}

func TestOrderEndpointsErrorMapping(t *testing.T) {
	env := newTestEnv(t)

	// Checkout with an empty cart.
	resp, _ := env.do(t, fiber.MethodPost, "/api/v1/orders/checkout", "cust-1",
		map[string]any{"address_id": "addr-1"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Checkout against someone else's address.
	resp, _ = env.do(t, fiber.MethodPost, "/api/v1/orders/checkout", "cust-2",
		map[string]any{"address_id": "addr-1"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Unknown menu item.
	resp, _ = env.do(t, fiber.MethodPost, "/api/v1/cart/items", "cust-1",
		map[string]any{"dish_id": "nope"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Both dish and package in one add request.
	resp, _ = env.do(t, fiber.MethodPost, "/api/v1/cart/items", "cust-1",
		map[string]any{"dish_id": "dish-1", "package_id": "pkg-1"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Unknown payment reference.
	resp, _ = env.do(t, fiber.MethodPost, "/api/v1/payments/callback", "",
		map[string]any{"trade_reference": "no-such-order"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminTransitionConflicts(t *testing.T) {
	env := newTestEnv(t)

	// Place and pay for an order.
	env.do(t, fiber.MethodPost, "/api/v1/cart/items", "cust-1", map[string]any{"dish_id": "dish-1"})
	resp, checkout := env.do(t, fiber.MethodPost, "/api/v1/orders/checkout", "cust-1",
		map[string]any{"address_id": "addr-1"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	orderID := checkout["order_id"].(string)
	number := checkout["number"].(string)
	env.do(t, fiber.MethodPost, "/api/v1/payments/callback", "", map[string]any{"trade_reference": number})

	// Dispatching before confirmation is an invalid transition.
	resp, _ = env.do(t, fiber.MethodPut, "/admin/v1/orders/"+orderID+"/delivery", "", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Rejecting without a reason is a bad request.
	resp, _ = env.do(t, fiber.MethodPut, "/admin/v1/orders/"+orderID+"/reject", "",
		map[string]any{"reason": ""})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// The customer cannot cancel once the merchant confirmed.
	resp, _ = env.do(t, fiber.MethodPut, "/admin/v1/orders/"+orderID+"/confirm", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, fiber.MethodPost, "/api/v1/orders/"+orderID+"/cancel", "cust-1", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Another customer cannot see the order at all.
	resp, _ = env.do(t, fiber.MethodGet, "/api/v1/orders/"+orderID, "cust-2", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCheckoutWithFreshAddress(t *testing.T) {
	env := newTestEnv(t)

	resp, created := env.do(t, fiber.MethodPost, "/api/v1/addresses", "cust-9", map[string]any{
		"consignee": "Sari", "phone": "0813", "detail": "Jl. Kenanga 7",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	addressID := created["id"].(string)

	// The address is visible to its owner only.
	resp, _ = env.do(t, fiber.MethodGet, "/api/v1/addresses/"+addressID, "cust-9", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, fiber.MethodGet, "/api/v1/addresses/"+addressID, "cust-1", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	env.do(t, fiber.MethodPost, "/api/v1/cart/items", "cust-9", map[string]any{"dish_id": "dish-1"})
	resp, checkout := env.do(t, fiber.MethodPost, "/api/v1/orders/checkout", "cust-9",
		map[string]any{"address_id": addressID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, order := env.do(t, fiber.MethodGet, "/api/v1/orders/"+checkout["order_id"].(string), "cust-9", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Sari", order["consignee"])
	assert.Equal(t, "Jl. Kenanga 7", order["address"])
}

func TestRepeatOrderOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, fiber.MethodPost, "/api/v1/cart/items", "cust-1", map[string]any{"dish_id": "dish-1"})
	resp, checkout := env.do(t, fiber.MethodPost, "/api/v1/orders/checkout", "cust-1",
		map[string]any{"address_id": "addr-1"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	orderID := checkout["order_id"].(string)
	number := checkout["number"].(string)
	env.do(t, fiber.MethodPost, "/api/v1/payments/callback", "", map[string]any{"trade_reference": number})

	cart, _ := env.cartRepo.List("cust-1")
	require.Empty(t, cart)

	resp, _ = env.do(t, fiber.MethodPost, "/api/v1/orders/"+orderID+"/repeat", "cust-1", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	cart, _ = env.cartRepo.List("cust-1")
	require.Len(t, cart, 1)
	assert.Equal(t, "Nasi Goreng", cart[0].Name)
}
