package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/storegate/auth-server/scopes"
)

// Kind selects which signing profile a token belongs to. The kind is never
// encoded as a claim: each kind signs with its own independent secret, so
// presenting a token of one kind where the other is expected fails signature
// verification outright instead of producing a wrong-kind claims object.
type Kind int

const (
	// Access tokens are short-lived and presented on every request.
	Access Kind = iota
	// Refresh tokens are long-lived and presented only to obtain a new
	// access token.
	Refresh
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 24 * time.Hour

	// BearerType is the token_type value returned with issued tokens.
	BearerType = "Bearer"
)

var (
	// ErrExpiredToken marks a correctly signed, well-formed token whose
	// expiry has passed. Callers may retry via the refresh flow.
	ErrExpiredToken = errors.New("token expired")
	// ErrInvalidToken marks a signature failure or malformed payload. The
	// token is untrustworthy and the caller should log in again.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the decoded payload of a signed session token.
type Claims struct {
	Subject   string
	Scopes    []scopes.Scope
	ExpiresAt time.Time
}

// Pair holds the tokens issued at initial authentication.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

type profile struct {
	secret []byte
	ttl    time.Duration
}

// Codec encodes and decodes signed session tokens using two independently
// configured key/expiry profiles. Compromise of one profile's secret must
// not compromise the other token class.
type Codec struct {
	profiles map[Kind]profile
	nowFunc  func() time.Time
}

// CodecOption modifies a Codec instance.
type CodecOption func(*Codec)

// WithTokenTTLs overrides the default access (15m) and refresh (24h)
// lifetimes.
func WithTokenTTLs(accessTTL, refreshTTL time.Duration) CodecOption {
	return func(c *Codec) {
		c.profiles[Access] = profile{secret: c.profiles[Access].secret, ttl: accessTTL}
		c.profiles[Refresh] = profile{secret: c.profiles[Refresh].secret, ttl: refreshTTL}
	}
}

// WithNowFunc sets the clock, primarily for testing expiry behaviour.
func WithNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

// NewCodec creates a token codec. The two secrets must be distinct and
// configured independently; sharing one secret collapses the access/refresh
// separation.
func NewCodec(accessSecret, refreshSecret string, options ...CodecOption) (*Codec, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("[NewCodec] both signing secrets are required")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("[NewCodec] access and refresh secrets must differ")
	}

	c := &Codec{
		profiles: map[Kind]profile{
			Access:  {secret: []byte(accessSecret), ttl: defaultAccessTTL},
			Refresh: {secret: []byte(refreshSecret), ttl: defaultRefreshTTL},
		},
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Issue serializes {subject, scopes, expiry} and signs it with the key
// bound to kind. A non-zero ttlOverride replaces the profile's default
// lifetime.
func (c *Codec) Issue(subject string, grantedScopes []scopes.Scope, kind Kind, ttlOverride time.Duration) (string, error) {
	p := c.profiles[kind]

	ttl := p.ttl
	if ttlOverride > 0 {
		ttl = ttlOverride
	}

	scopeStrings := scopes.Strings(grantedScopes)
	if scopeStrings == nil {
		scopeStrings = []string{}
	}

	claims := jwt.MapClaims{
		"sub":    subject,
		"scopes": scopeStrings,
		"exp":    c.nowFunc().Add(ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", errors.Wrap(err, "[Codec.Issue] failed to sign token")
	}
	return signed, nil
}

// IssuePair issues an access and a refresh token carrying the same subject
// and scopes. Used only at initial authentication: the refresh flow issues
// a new access token alone, refresh tokens are not rotated.
func (c *Codec) IssuePair(subject string, grantedScopes []scopes.Scope) (*Pair, error) {
	access, err := c.Issue(subject, grantedScopes, Access, 0)
	if err != nil {
		return nil, errors.Wrap(err, "[Codec.IssuePair] access token")
	}
	refresh, err := c.Issue(subject, grantedScopes, Refresh, 0)
	if err != nil {
		return nil, errors.Wrap(err, "[Codec.IssuePair] refresh token")
	}
	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    BearerType,
	}, nil
}

// Decode verifies the signature using the key bound to kind, parses the
// claims and checks expiry. Signature failure, a malformed payload or a
// payload missing required claims all collapse to ErrInvalidToken; a
// correctly signed token whose expiry has passed yields ErrExpiredToken.
func (c *Codec) Decode(raw string, kind Kind) (*Claims, error) {
	p := c.profiles[kind]

	parsed, err := jwt.Parse(raw,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return p.secret, nil
		},
		jwt.WithTimeFunc(c.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	subject, ok := mapClaims["sub"].(string)
	if !ok || subject == "" {
		return nil, ErrInvalidToken
	}

	rawScopes, ok := mapClaims["scopes"].([]any)
	if !ok {
		return nil, ErrInvalidToken
	}
	scopeStrings := make([]string, 0, len(rawScopes))
	for _, v := range rawScopes {
		s, ok := v.(string)
		if !ok {
			return nil, ErrInvalidToken
		}
		scopeStrings = append(scopeStrings, s)
	}

	exp, _ := mapClaims["exp"].(float64)

	return &Claims{
		Subject:   subject,
		Scopes:    scopes.FromStrings(scopeStrings),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
