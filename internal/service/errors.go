package service

import (
	"github.com/solesphere/storefront/internal/domain"
)

// Cart and catalog errors - use domain.ENOTFOUND
var (
	ErrCartNotFound     = domain.Errorf(domain.ENOTFOUND, "", "Cart not found")
	ErrCartItemNotFound = domain.Errorf(domain.ENOTFOUND, "", "Cart item not found")
	ErrVariantNotFound  = domain.Errorf(domain.ENOTFOUND, "", "Product variant not found")
	ErrProductNotFound  = domain.Errorf(domain.ENOTFOUND, "", "Product not found")
)

// Validation errors - use domain.EINVALID
var (
	ErrInvalidQuantity   = domain.Errorf(domain.EINVALID, "", "Quantity must be greater than 0")
	ErrVariantOutOfStock = domain.Errorf(domain.ECONFLICT, "", "Product variant is out of stock")
)

// Checkout and fulfillment errors
var (
	ErrCartEmpty            = domain.Errorf(domain.EINVALID, "", "Cart is empty")
	ErrCheckoutSession      = domain.Errorf(domain.EPAYMENT, "", "Failed to create checkout session")
	ErrMissingCartMetadata  = domain.Errorf(domain.EINVALID, "", "Cart ID missing from checkout session metadata")
	ErrMissingCustomerEmail = domain.Errorf(domain.EINVALID, "", "Customer email missing from checkout session")
	ErrOrderNotFound        = domain.Errorf(domain.ENOTFOUND, "", "Order not found")
)

// Auth errors
var (
	ErrInvalidCredentials = domain.Errorf(domain.EUNAUTHORIZED, "", "Invalid email or password")
	ErrEmailTaken         = domain.Errorf(domain.ECONFLICT, "", "An account with this email already exists")
	ErrSessionNotFound    = domain.Errorf(domain.ENOTFOUND, "", "Session not found")
	ErrUserNotFound       = domain.Errorf(domain.ENOTFOUND, "", "User not found")
)
