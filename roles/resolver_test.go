package roles_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/storegate/auth-server/cache/memorystore"
	"github.com/storegate/auth-server/roles"
	"github.com/storegate/auth-server/roles/repofake"
	"github.com/storegate/auth-server/scopes"
)

type resolverFixture struct {
	resolver *roles.Resolver
	repo     *repofake.FakeRoleRepo
	now      time.Time
}

func newResolverFixture(t *testing.T, options ...roles.ResolverOption) *resolverFixture {
	t.Helper()
	f := &resolverFixture{
		repo: repofake.NewFakeRoleRepo(),
		now:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	store := memorystore.New().WithNowFunc(func() time.Time { return f.now })
	f.repo.SetScopes(roles.Customer, []scopes.Scope{scopes.UsersGetMe, scopes.AuthRefreshToken})
	f.repo.SetScopes(roles.Support, []scopes.Scope{scopes.UsersGetMe, scopes.UsersGetUsers, scopes.UsersGetUser})

	resolver, err := roles.NewResolver(f.repo, store, options...)
	require.NoError(t, err)
	f.resolver = resolver
	return f
}

func TestNewResolverValidation(t *testing.T) {
	_, err := roles.NewResolver(nil, memorystore.New())
	require.Error(t, err)
	_, err = roles.NewResolver(repofake.NewFakeRoleRepo(), nil)
	require.Error(t, err)
}

func TestResolveUnionsRoleScopes(t *testing.T) {
	f := newResolverFixture(t)

	resolved, err := f.resolver.Resolve(context.Background(), []roles.Role{roles.Customer, roles.Support})
	require.NoError(t, err)
	require.ElementsMatch(t,
		[]scopes.Scope{scopes.UsersGetMe, scopes.AuthRefreshToken, scopes.UsersGetUsers, scopes.UsersGetUser},
		resolved)
}

func TestResolveCachesBySortedRoleSet(t *testing.T) {
	f := newResolverFixture(t)
	ctx := context.Background()

	first, err := f.resolver.Resolve(ctx, []roles.Role{roles.Customer, roles.Support})
	require.NoError(t, err)
	require.Equal(t, 1, f.repo.Calls())

	t.Run("repeat lookup is served from cache", func(t *testing.T) {
		second, err := f.resolver.Resolve(ctx, []roles.Role{roles.Customer, roles.Support})
		require.NoError(t, err)
		require.Equal(t, first, second)
		require.Equal(t, 1, f.repo.Calls())
	})

	t.Run("role order does not change the cache key", func(t *testing.T) {
		reordered, err := f.resolver.Resolve(ctx, []roles.Role{roles.Support, roles.Customer})
		require.NoError(t, err)
		require.Equal(t, first, reordered)
		require.Equal(t, 1, f.repo.Calls())
	})

	t.Run("a different role set misses", func(t *testing.T) {
		_, err := f.resolver.Resolve(ctx, []roles.Role{roles.Customer})
		require.NoError(t, err)
		require.Equal(t, 2, f.repo.Calls())
	})
}

func TestResolveCacheEntryExpires(t *testing.T) {
	f := newResolverFixture(t, roles.WithCacheTTL(time.Hour))
	ctx := context.Background()

	_, err := f.resolver.Resolve(ctx, []roles.Role{roles.Customer})
	require.NoError(t, err)
	require.Equal(t, 1, f.repo.Calls())

	f.now = f.now.Add(time.Hour + time.Minute)

	updated := []scopes.Scope{scopes.UsersGetMe}
	f.repo.SetScopes(roles.Customer, updated)

	resolved, err := f.resolver.Resolve(ctx, []roles.Role{roles.Customer})
	require.NoError(t, err)
	require.Equal(t, 2, f.repo.Calls())
	require.Equal(t, updated, resolved)
}

func TestResolveNoRoles(t *testing.T) {
	f := newResolverFixture(t)

	resolved, err := f.resolver.Resolve(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, resolved)
}
