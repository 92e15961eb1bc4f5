package repofake

import (
	"context"
	"sync"

	"github.com/storegate/auth-server/roles"
	"github.com/storegate/auth-server/scopes"
)

var _ roles.Repo = (*FakeRoleRepo)(nil)

// FakeRoleRepo is an in-memory roles.Repo for tests.
type FakeRoleRepo struct {
	grants map[roles.Role][]scopes.Scope
	calls  int
	lock   sync.RWMutex
}

func NewFakeRoleRepo() *FakeRoleRepo {
	return &FakeRoleRepo{grants: make(map[roles.Role][]scopes.Scope)}
}

// SetScopes assigns the scope set granted by a role.
func (rr *FakeRoleRepo) SetScopes(role roles.Role, s []scopes.Scope) {
	rr.lock.Lock()
	defer rr.lock.Unlock()
	rr.grants[role] = s
}

// Calls returns how many times GetScopesByRoles was invoked, letting tests
// observe cache hits.
func (rr *FakeRoleRepo) Calls() int {
	rr.lock.RLock()
	defer rr.lock.RUnlock()
	return rr.calls
}

func (rr *FakeRoleRepo) GetScopesByRoles(_ context.Context, roleNames []roles.Role) ([]scopes.Scope, error) {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	rr.calls++

	seen := make(map[scopes.Scope]struct{})
	union := make([]scopes.Scope, 0)
	for _, role := range roleNames {
		for _, s := range rr.grants[role] {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			union = append(union, s)
		}
	}
	return union, nil
}
