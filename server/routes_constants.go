package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes - token lifecycle
	RouteAuthTokens      = "/auth/tokens"
	RouteAuthAccessToken = "/auth/access-token"

	// User Routes
	RouteUsersMe = "/users/me"

	// Storefront Routes
	RouteProducts = "/products"

	// Operational Routes
	RouteHealth = "/health"
)
