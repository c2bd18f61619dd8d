package routes

import (
	"github.com/solesphere/storefront/internal/middleware"
	"github.com/solesphere/storefront/internal/router"
)

// RegisterStorefrontRoutes registers all customer-facing storefront routes.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Shopping cart (works for guests and signed-in users)
	r.Get("/cart", deps.CartHandler.View)
	r.Post("/cart/items", deps.CartHandler.Add)
	r.Patch("/cart/items/{id}", deps.CartHandler.Update)
	r.Delete("/cart/items/{id}", deps.CartHandler.Remove)

	// Authentication
	r.Post("/sign-up", deps.AuthHandler.SignUp)
	r.Post("/sign-in", deps.AuthHandler.SignIn)
	r.Post("/sign-out", deps.AuthHandler.SignOut)

	// Checkout flow. The success URL is public: the shopper returns from
	// the gateway without necessarily carrying a session cookie, and the
	// session id itself proves the purchase.
	r.Get("/checkout/success", deps.OrderConfirmationHandler.Success)

	// Routes that require authentication
	account := r.Group(middleware.RequireAuth)
	account.Post("/checkout", deps.CheckoutHandler.Start)
	account.Get("/account/addresses", deps.AccountHandler.ListAddresses)
	account.Post("/account/addresses", deps.AccountHandler.CreateAddress)
	account.Get("/orders/{id}", deps.AccountHandler.GetOrder)
	account.Get("/wishlist", deps.WishlistHandler.List)
	account.Put("/wishlist/{product_id}", deps.WishlistHandler.Add)
	account.Delete("/wishlist/{product_id}", deps.WishlistHandler.Remove)
}
