package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/storegate/auth-server/auth"
	"github.com/storegate/auth-server/scopes"
	"github.com/storegate/auth-server/token"
)

type errorResponse struct {
	Error string `json:"error"`
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Caller-visible messages for the authorization error taxonomy. The
// incorrect-credentials message is identical for an unknown username, a
// deleted account and a bad password.
const (
	msgIncorrectCredentials = "Incorrect username or password."
	msgNotAuthorized        = "Not authorized."
	msgExpiredToken         = "Token is expired."
	msgInvalidCredentials   = "Invalid credentials."
	msgPermissionDenied     = "Permission denied."
	msgEmailNotVerified     = "Email is not verified."
	msgInternal             = "Internal server error."
)

// CreateTokensHandler authenticates a username/password form and issues the
// session's access and refresh token pair. The optional "scope" field is a
// space-separated list requesting a narrower grant than the user's roles
// permit.
func (s *Server) CreateTokensHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid form data."})
			return
		}

		username := r.PostFormValue("username")
		password := r.PostFormValue("password")
		requested := scopes.FromStrings(splitScopeField(r.PostFormValue("scope")))

		current, err := s.deps.Authenticator.Authenticate(r.Context(), username, password, requested)
		if err != nil {
			s.writeError(w, err)
			return
		}

		pair, err := s.deps.Codec.IssuePair(current.User.ID, current.Scopes)
		if err != nil {
			s.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, pair)
	}
}

// RefreshAccessTokenHandler exchanges a refresh token for a new access
// token. The granted scopes are re-derived from the user's current roles,
// so role changes take effect at the next refresh; the refresh token itself
// is never rotated.
func (s *Server) RefreshAccessTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := CurrentUserFrom(r.Context())
		if !ok {
			s.writeError(w, auth.ErrNotAuthorized)
			return
		}

		granted, err := s.deps.Resolver.Resolve(r.Context(), current.User.Roles)
		if err != nil {
			s.writeError(w, err)
			return
		}

		accessToken, err := s.deps.Codec.Issue(current.User.ID, granted, token.Access, 0)
		if err != nil {
			s.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, accessTokenResponse{
			AccessToken: accessToken,
			TokenType:   token.BearerType,
		})
	}
}

// GetMeHandler returns the current user record.
func (s *Server) GetMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := CurrentUserFrom(r.Context())
		if !ok {
			s.writeError(w, auth.ErrNotAuthorized)
			return
		}
		writeJSON(w, http.StatusOK, current.User)
	}
}

// ListProductsHandler serves the storefront listing. Anonymous callers, and
// authenticated callers whose session lacks the products scope, see only
// released products.
func (s *Server) ListProductsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		releasedOnly := true
		if current, ok := CurrentUserFrom(r.Context()); ok {
			if scopes.Verify(current.Scopes, []scopes.Scope{scopes.ProductsGetProducts}) == nil {
				releasedOnly = false
			}
		}

		listed, err := s.deps.Products.List(r.Context(), releasedOnly)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listed)
	}
}

// HealthHandler is the liveness probe.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// writeError maps the authorization error taxonomy to HTTP responses.
// Anything outside the taxonomy is an infrastructure failure, logged and
// reported as a service error rather than an auth decision.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrIncorrectCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msgIncorrectCredentials})
	case errors.Is(err, auth.ErrNotAuthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msgNotAuthorized})
	case errors.Is(err, token.ErrExpiredToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msgExpiredToken})
	case errors.Is(err, token.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msgInvalidCredentials})
	case errors.Is(err, auth.ErrPermissionDenied):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: msgPermissionDenied})
	case errors.Is(err, auth.ErrEmailNotVerified):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: msgEmailNotVerified})
	default:
		s.log.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func splitScopeField(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}
	return strings.Fields(field)
}
