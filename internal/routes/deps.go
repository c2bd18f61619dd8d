// Package routes wires handlers onto the router.
package routes

import (
	"github.com/solesphere/storefront/internal/handler/storefront"
	"github.com/solesphere/storefront/internal/handler/webhook"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	// Cart
	CartHandler *storefront.CartHandler

	// Auth (sign-up, sign-in, sign-out)
	AuthHandler *storefront.AuthHandler

	// Checkout flow
	CheckoutHandler          *storefront.CheckoutHandler
	OrderConfirmationHandler *storefront.OrderConfirmationHandler

	// Account (addresses, order history)
	AccountHandler *storefront.AccountHandler

	// Wishlist
	WishlistHandler *storefront.WishlistHandler
}

// WebhookDeps contains dependencies for webhook routes
type WebhookDeps struct {
	StripeHandler *webhook.StripeHandler
}
