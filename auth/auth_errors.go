package auth

import (
	"errors"

	"github.com/storegate/auth-server/scopes"
)

var (
	// ErrIncorrectCredentials covers an unknown username, a deleted
	// account and a password mismatch at login. The three causes must stay
	// indistinguishable to the caller: a failed login never reveals
	// whether the username exists.
	ErrIncorrectCredentials = errors.New("incorrect username or password")

	// ErrNotAuthorized covers a missing token where one is mandatory and a
	// valid token whose subject account is absent or deleted.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrEmailNotVerified rejects an otherwise valid session whose account
	// has not completed email verification.
	ErrEmailNotVerified = errors.New("email is not verified")

	// ErrPermissionDenied is the scope-subset failure surfaced both at
	// login-time scope negotiation and at per-route gating.
	ErrPermissionDenied = scopes.ErrPermissionDenied
)
