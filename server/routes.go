package server

import "github.com/storegate/auth-server/scopes"

// initRoutes declares every route together with the exact scope set it
// requires; the scope sets are static per-route metadata consulted by the
// gate on every pass.
func (s *Server) initRoutes() {
	gates := s.deps.Gates

	// Token lifecycle
	s.RegisterRouteFunc("POST "+RouteAuthTokens, ChainMiddleware(
		s.CreateTokensHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAuthAccessToken, ChainMiddleware(
		s.RefreshAccessTokenHandler(),
		append(s.APIMiddleware(), s.RequireAuth(gates.StrictRefresh, scopes.AuthRefreshToken))...))

	// Users
	s.RegisterRouteFunc("GET "+RouteUsersMe, ChainMiddleware(
		s.GetMeHandler(),
		append(s.APIMiddleware(), s.RequireAuth(gates.Strict, scopes.UsersGetMe))...))

	// Storefront
	s.RegisterRouteFunc("GET "+RouteProducts, ChainMiddleware(
		s.ListProductsHandler(),
		append(s.APIMiddleware(), s.RequireAuth(gates.Optional))...))

	// Operational
	s.RegisterRouteFunc("GET "+RouteHealth, ChainMiddleware(
		s.HealthHandler(), s.APIMiddleware()...))
}
