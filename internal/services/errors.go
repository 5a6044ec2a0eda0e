package services

import "errors"

// Sentinel errors shared across services. Handlers map these onto the HTTP
// envelope with errors.Is.
var (
	// Validation / not-found
	ErrValidation          = errors.New("validation error")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderItemNotFound   = errors.New("order item not found")
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrMenuItemUnavailable = errors.New("menu item is not available")
	ErrTableNotFound       = errors.New("table not found")
	ErrNoActiveOrders      = errors.New("no active orders found for this table")
	ErrUserNotFound        = errors.New("user not found")

	// Invalid-state
	ErrTableInactive         = errors.New("table is not active")
	ErrTableUnavailable      = errors.New("table is unavailable")
	ErrOrderServed           = errors.New("cannot update served orders")
	ErrCannotCancelServed    = errors.New("cannot cancel served order")
	ErrInvalidOrderStatus    = errors.New("invalid order status")
	ErrInvalidItemStatus     = errors.New("invalid order item status")
	ErrOrderAlreadyPaid      = errors.New("order already paid")
	ErrOrderAlreadyClosed    = errors.New("order already completed")
	ErrOrderAlreadyServed    = errors.New("order is already served")
	ErrPaymentRequired       = errors.New("cannot close order without payment")
	ErrTableHasPendingOrders = errors.New("table still has pending orders")

	// Auth
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is inactive")
)
