package auth

import (
	"github.com/storegate/auth-server/scopes"
	"github.com/storegate/auth-server/users"
)

// CurrentUser is the request-scoped session context: the resolved
// credential record plus the scope set actually granted to this session,
// which may be a strict subset of the role-derived permitted set when the
// client negotiated a narrower set at login. It borrows the user record for
// the request lifetime and is created fresh per request; concurrent
// requests never share one.
type CurrentUser struct {
	User   *users.User
	Scopes []scopes.Scope
}
