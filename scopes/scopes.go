package scopes

import "errors"

// Scope is an atomic permission identifier. Routes declare the scopes they
// require and roles grant sets of them.
type Scope string

// Scope naming: {domain}_{action}_{entity}
const (
	HealthGetHealth Scope = "HEALTH_GET_HEALTH"

	AuthRefreshToken Scope = "AUTH_REFRESH_TOKEN"

	UsersGetMe              Scope = "USERS_GET_ME"
	UsersGetUsers           Scope = "USERS_GET_USERS"
	UsersGetUser            Scope = "USERS_GET_USER"
	UsersCreateUser         Scope = "USERS_CREATE_USER"
	UsersUpdateUser         Scope = "USERS_UPDATE_USER"
	UsersUpdateUserPassword Scope = "USERS_UPDATE_USER_PASSWORD"
	UsersDeleteUser         Scope = "USERS_DELETE_USER"

	CategoriesGetCategories Scope = "CATEGORIES_GET_CATEGORIES"
	CategoriesGetCategory   Scope = "CATEGORIES_GET_CATEGORY"

	ProductsCreateProduct Scope = "PRODUCTS_CREATE_PRODUCT"
	ProductsGetProducts   Scope = "PRODUCTS_GET_PRODUCTS"
	ProductsGetProduct    Scope = "PRODUCTS_GET_PRODUCT"
)

// ErrPermissionDenied is returned whenever a required scope set is not
// covered by a granted scope set, both at login-time scope negotiation and
// at per-route gating.
var ErrPermissionDenied = errors.New("permission denied")

// Verify reports whether every scope in required is present in granted.
// It is the single place that implements the subset check so that
// authorization semantics cannot diverge between call sites. An empty
// required set always succeeds.
func Verify(granted, required []Scope) error {
	grantedSet := make(map[Scope]struct{}, len(granted))
	for _, s := range granted {
		grantedSet[s] = struct{}{}
	}
	for _, s := range required {
		if _, ok := grantedSet[s]; !ok {
			return ErrPermissionDenied
		}
	}
	return nil
}

// FromStrings converts raw scope strings (e.g. a parsed form field or token
// claim) into typed scopes without validating them against the catalogue:
// unknown scopes simply never match a route's requirements.
func FromStrings(raw []string) []Scope {
	if len(raw) == 0 {
		return nil
	}
	converted := make([]Scope, 0, len(raw))
	for _, s := range raw {
		converted = append(converted, Scope(s))
	}
	return converted
}

// Strings converts typed scopes back to plain strings for serialization.
func Strings(s []Scope) []string {
	if len(s) == 0 {
		return nil
	}
	converted := make([]string, 0, len(s))
	for _, scope := range s {
		converted = append(converted, string(scope))
	}
	return converted
}
