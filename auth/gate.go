package auth

import (
	"context"

	"github.com/pkg/errors"

	"github.com/storegate/auth-server/scopes"
	"github.com/storegate/auth-server/token"
	"github.com/storegate/auth-server/users"
)

// Presence states whether a request must carry a bearer token.
type Presence int

const (
	// Mandatory terminates with ErrNotAuthorized when no token is present.
	Mandatory Presence = iota
	// Optional treats a missing token as an anonymous caller: the gate
	// succeeds with no session.
	Optional
)

// Gate is the request-time authorization guard. The three deployed
// configurations (strict, strict-with-refresh-token, optional) are one
// algorithm parameterized by presence requirement and token kind, so the
// security-critical steps - decode, scope check, deleted-account check -
// can never drift between variants.
type Gate struct {
	presence Presence
	kind     token.Kind
	codec    *token.Codec
	userRepo users.UserRepo
}

// Gates bundles the three gate configurations, built once at service
// start-up and injected into route handlers. Gates hold no mutable state,
// so one shared instance serves all requests.
type Gates struct {
	Strict        *Gate // mandatory token, access profile
	StrictRefresh *Gate // mandatory token, refresh profile
	Optional      *Gate // optional token, access profile
}

// NewGate creates a single gate configuration.
func NewGate(codec *token.Codec, userRepo users.UserRepo, presence Presence, kind token.Kind) (*Gate, error) {
	if codec == nil {
		return nil, errors.New("[NewGate] token codec is required")
	}
	if userRepo == nil {
		return nil, errors.New("[NewGate] user repo is required")
	}
	return &Gate{presence: presence, kind: kind, codec: codec, userRepo: userRepo}, nil
}

// NewGates builds the standard gate family.
func NewGates(codec *token.Codec, userRepo users.UserRepo) (*Gates, error) {
	strict, err := NewGate(codec, userRepo, Mandatory, token.Access)
	if err != nil {
		return nil, err
	}
	strictRefresh, err := NewGate(codec, userRepo, Mandatory, token.Refresh)
	if err != nil {
		return nil, err
	}
	optional, err := NewGate(codec, userRepo, Optional, token.Access)
	if err != nil {
		return nil, err
	}
	return &Gates{Strict: strict, StrictRefresh: strictRefresh, Optional: optional}, nil
}

// Authorize runs the gate for one request. rawToken is the bearer token
// extracted from the request, empty when none was presented; required is
// the route's declared scope set.
//
// Returns (nil, nil) only for an optional gate with no token: downstream
// code must treat that as an anonymous caller. Every failure is surfaced -
// authorization is never defaulted to a permissive outcome.
func (g *Gate) Authorize(ctx context.Context, rawToken string, required []scopes.Scope) (*CurrentUser, error) {
	if rawToken == "" {
		if g.presence == Optional {
			return nil, nil
		}
		return nil, ErrNotAuthorized
	}

	claims, err := g.codec.Decode(rawToken, g.kind)
	if err != nil {
		return nil, err
	}

	if err := scopes.Verify(claims.Scopes, required); err != nil {
		return nil, err
	}

	user, err := g.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrNotAuthorized
		}
		return nil, errors.Wrap(err, "[Gate.Authorize] GetByID")
	}

	// A removed account loses access immediately, closing the window
	// between deletion and token expiry.
	if user.Deleted {
		return nil, ErrNotAuthorized
	}

	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	return &CurrentUser{User: user, Scopes: claims.Scopes}, nil
}
