package models

import "errors"

// Sentinel errors for the order lifecycle core. Services wrap these with
// fmt.Errorf("...: %w", err); handlers map them to HTTP statuses with
// errors.Is.
var (
	// ErrAddressNotFound is returned when an address id does not exist or
	// does not belong to the requesting customer.
	ErrAddressNotFound = errors.New("address not found")

	// ErrOrderNotFound is returned when an order lookup by id or number misses.
	ErrOrderNotFound = errors.New("order not found")

	// ErrItemNotFound is returned when a cart add references an unknown or
	// off-sale menu item.
	ErrItemNotFound = errors.New("menu item not found")

	// ErrUserNotFound is returned when an account lookup misses.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmptyCart is returned when checkout finds nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	// ErrReasonRequired is returned when a rejection or cancellation is
	// missing its required reason.
	ErrReasonRequired = errors.New("a reason is required")

	// ErrInvalidState is returned when a transition is attempted from a
	// status it is not legal from.
	ErrInvalidState = errors.New("order status does not allow this operation")

	// ErrConcurrentModification is returned when an optimistic status update
	// loses the race to a concurrent writer. Exactly one writer wins.
	ErrConcurrentModification = errors.New("order was modified concurrently")

	// ErrOutOfDeliveryRange is returned when the customer address is beyond
	// the delivery radius, or the distance check itself failed.
	ErrOutOfDeliveryRange = errors.New("address is out of delivery range")

	// ErrExternalService is returned when a third-party call (geocoding,
	// payment, refund) fails.
	ErrExternalService = errors.New("external service call failed")
)
