package auth

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/storegate/auth-server/roles"
	"github.com/storegate/auth-server/scopes"
	"github.com/storegate/auth-server/users"
)

// Authenticator verifies a username/password pair against the credential
// store and negotiates the scope set for a new session.
type Authenticator struct {
	userRepo users.UserRepo
	resolver *roles.Resolver
	log      zerolog.Logger
}

// AuthenticatorOption modifies an Authenticator instance.
type AuthenticatorOption func(*Authenticator)

// WithLogger sets the logger used for non-fatal maintenance events.
func WithLogger(log zerolog.Logger) AuthenticatorOption {
	return func(a *Authenticator) {
		a.log = log
	}
}

// NewAuthenticator initializes an Authenticator with required dependencies.
func NewAuthenticator(userRepo users.UserRepo, resolver *roles.Resolver, options ...AuthenticatorOption) (*Authenticator, error) {
	if userRepo == nil {
		return nil, errors.New("[NewAuthenticator] user repo is required")
	}
	if resolver == nil {
		return nil, errors.New("[NewAuthenticator] role resolver is required")
	}

	a := &Authenticator{
		userRepo: userRepo,
		resolver: resolver,
		log:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(a)
	}
	return a, nil
}

// Authenticate verifies the credentials and returns the new session.
//
// An unknown username, a deleted account and a wrong password all return
// ErrIncorrectCredentials uniformly. When requestedScopes is non-empty the
// session is granted exactly that set, provided it is covered by the scopes
// the user's roles permit; otherwise ErrPermissionDenied is returned, which
// is distinct from a credential failure because the identity check already
// passed. An empty request grants the full permitted set.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string, requestedScopes []scopes.Scope) (*CurrentUser, error) {
	user, err := a.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrIncorrectCredentials
		}
		return nil, errors.Wrap(err, "[Authenticator.Authenticate] GetByUsername")
	}

	if user.Deleted || !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrIncorrectCredentials
	}

	// The stored hash may predate the current cost policy.
	if users.CheckNeedsRehash(user.PasswordHash) {
		a.rehashPassword(ctx, user, password)
	}

	permitted, err := a.resolver.Resolve(ctx, user.Roles)
	if err != nil {
		return nil, errors.Wrap(err, "[Authenticator.Authenticate] resolver.Resolve")
	}

	granted := permitted
	if len(requestedScopes) > 0 {
		if err := scopes.Verify(permitted, requestedScopes); err != nil {
			return nil, err
		}
		granted = requestedScopes
	}

	return &CurrentUser{User: user, Scopes: granted}, nil
}

// rehashPassword is best effort: a failure leaves the old hash in place and
// must not fail the login.
func (a *Authenticator) rehashPassword(ctx context.Context, user *users.User, password string) {
	hash, err := users.HashPassword(password)
	if err != nil {
		a.log.Warn().Err(err).Str("user_id", user.ID).Msg("password rehash failed")
		return
	}
	if err := a.userRepo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		a.log.Warn().Err(err).Str("user_id", user.ID).Msg("password rehash update failed")
		return
	}
	user.PasswordHash = hash
}
