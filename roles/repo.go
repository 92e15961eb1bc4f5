package roles

import (
	"context"

	"github.com/storegate/auth-server/scopes"
)

// Repo is the external role store. GetScopesByRoles returns the union of
// the scope sets granted by the given roles, deduplicated; unknown role
// names contribute nothing.
type Repo interface {
	GetScopesByRoles(ctx context.Context, roleNames []Role) ([]scopes.Scope, error)
}
