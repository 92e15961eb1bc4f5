package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/storegate/auth-server/auth"
	"github.com/storegate/auth-server/roles"
	"github.com/storegate/auth-server/scopes"
	"github.com/storegate/auth-server/token"
	"github.com/storegate/auth-server/users"
	usersfake "github.com/storegate/auth-server/users/repofake"
)

type gateFixture struct {
	gates    *auth.Gates
	codec    *token.Codec
	userRepo *usersfake.FakeUserRepo
	user     *users.User
	now      time.Time
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	f := &gateFixture{
		userRepo: usersfake.NewFakeUserRepo(),
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	codec, err := token.NewCodec("access-secret", "refresh-secret",
		token.WithNowFunc(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.codec = codec

	f.user = &users.User{
		Username:      "john.smith",
		Email:         "john.smith@example.com",
		Roles:         []roles.Role{roles.Customer},
		EmailVerified: true,
	}
	require.NoError(t, f.userRepo.Upsert(context.Background(), f.user))

	gates, err := auth.NewGates(codec, f.userRepo)
	require.NoError(t, err)
	f.gates = gates
	return f
}

func (f *gateFixture) issue(t *testing.T, kind token.Kind, granted ...scopes.Scope) string {
	t.Helper()
	signed, err := f.codec.Issue(f.user.ID, granted, kind, 0)
	require.NoError(t, err)
	return signed
}

func TestStrictGate(t *testing.T) {
	ctx := context.Background()

	t.Run("missing token", func(t *testing.T) {
		f := newGateFixture(t)
		_, err := f.gates.Strict.Authorize(ctx, "", []scopes.Scope{scopes.UsersGetMe})
		require.ErrorIs(t, err, auth.ErrNotAuthorized)
	})

	t.Run("valid token with required scope", func(t *testing.T) {
		f := newGateFixture(t)
		raw := f.issue(t, token.Access, scopes.UsersGetMe, scopes.AuthRefreshToken)

		current, err := f.gates.Strict.Authorize(ctx, raw, []scopes.Scope{scopes.UsersGetMe})
		require.NoError(t, err)
		require.Equal(t, f.user.ID, current.User.ID)
		require.Equal(t, []scopes.Scope{scopes.UsersGetMe, scopes.AuthRefreshToken}, current.Scopes)
	})

	t.Run("token missing required scope", func(t *testing.T) {
		f := newGateFixture(t)
		raw := f.issue(t, token.Access, scopes.UsersGetMe)

		_, err := f.gates.Strict.Authorize(ctx, raw, []scopes.Scope{scopes.UsersDeleteUser})
		require.ErrorIs(t, err, auth.ErrPermissionDenied)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newGateFixture(t)
		raw := f.issue(t, token.Access, scopes.UsersGetMe)
		f.now = f.now.Add(16 * time.Minute)

		_, err := f.gates.Strict.Authorize(ctx, raw, []scopes.Scope{scopes.UsersGetMe})
		require.ErrorIs(t, err, token.ErrExpiredToken)
	})

	t.Run("subject no longer exists", func(t *testing.T) {
		f := newGateFixture(t)
		signed, err := f.codec.Issue("ghost-user-id", nil, token.Access, 0)
		require.NoError(t, err)

		_, err = f.gates.Strict.Authorize(ctx, signed, nil)
		require.ErrorIs(t, err, auth.ErrNotAuthorized)
	})

	t.Run("deleted account loses access before token expiry", func(t *testing.T) {
		f := newGateFixture(t)
		raw := f.issue(t, token.Access, scopes.UsersGetMe)

		_, err := f.gates.Strict.Authorize(ctx, raw, []scopes.Scope{scopes.UsersGetMe})
		require.NoError(t, err)

		require.NoError(t, f.userRepo.SetDeleted(ctx, f.user.ID, true))
		_, err = f.gates.Strict.Authorize(ctx, raw, []scopes.Scope{scopes.UsersGetMe})
		require.ErrorIs(t, err, auth.ErrNotAuthorized)
	})

	t.Run("unverified email", func(t *testing.T) {
		f := newGateFixture(t)
		f.user.EmailVerified = false
		raw := f.issue(t, token.Access, scopes.UsersGetMe)

		_, err := f.gates.Strict.Authorize(ctx, raw, []scopes.Scope{scopes.UsersGetMe})
		require.ErrorIs(t, err, auth.ErrEmailNotVerified)
	})
}

func TestStrictRefreshGate(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts refresh token", func(t *testing.T) {
		f := newGateFixture(t)
		raw := f.issue(t, token.Refresh, scopes.AuthRefreshToken)

		current, err := f.gates.StrictRefresh.Authorize(ctx, raw, []scopes.Scope{scopes.AuthRefreshToken})
		require.NoError(t, err)
		require.Equal(t, f.user.ID, current.User.ID)
	})

	t.Run("rejects access token", func(t *testing.T) {
		f := newGateFixture(t)
		raw := f.issue(t, token.Access, scopes.AuthRefreshToken)

		_, err := f.gates.StrictRefresh.Authorize(ctx, raw, []scopes.Scope{scopes.AuthRefreshToken})
		require.ErrorIs(t, err, token.ErrInvalidToken)
	})
}

func TestOptionalGate(t *testing.T) {
	ctx := context.Background()

	t.Run("missing token is an anonymous caller", func(t *testing.T) {
		f := newGateFixture(t)
		current, err := f.gates.Optional.Authorize(ctx, "", nil)
		require.NoError(t, err)
		require.Nil(t, current)
	})

	t.Run("presented token is still fully checked", func(t *testing.T) {
		f := newGateFixture(t)
		raw := f.issue(t, token.Access, scopes.UsersGetMe)
		f.now = f.now.Add(16 * time.Minute)

		_, err := f.gates.Optional.Authorize(ctx, raw, nil)
		require.ErrorIs(t, err, token.ErrExpiredToken)
	})

	t.Run("valid token attaches the session", func(t *testing.T) {
		f := newGateFixture(t)
		raw := f.issue(t, token.Access, scopes.ProductsGetProducts)

		current, err := f.gates.Optional.Authorize(ctx, raw, nil)
		require.NoError(t, err)
		require.NotNil(t, current)
		require.Equal(t, []scopes.Scope{scopes.ProductsGetProducts}, current.Scopes)
	})
}
