package roles

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/storegate/auth-server/cache"
	"github.com/storegate/auth-server/scopes"
)

const (
	cacheKeyPrefix  = "role_scopes:"
	defaultCacheTTL = time.Hour
)

// Resolver maps a set of roles to the union of scopes those roles grant,
// backed by a read-through cache with TTL. Cache entries are only ever
// invalidated by expiry, so administrative role edits propagate within one
// TTL window at the latest.
type Resolver struct {
	repo     Repo
	cache    cache.Cache
	cacheTTL time.Duration
}

// ResolverOption modifies a Resolver instance.
type ResolverOption func(*Resolver)

// WithCacheTTL overrides the default one hour cache entry lifetime.
func WithCacheTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.cacheTTL = ttl
	}
}

// NewResolver creates a role-to-scope resolver.
func NewResolver(repo Repo, c cache.Cache, options ...ResolverOption) (*Resolver, error) {
	if repo == nil {
		return nil, errors.New("[NewResolver] role repo is required")
	}
	if c == nil {
		return nil, errors.New("[NewResolver] cache is required")
	}

	r := &Resolver{
		repo:     repo,
		cache:    c,
		cacheTTL: defaultCacheTTL,
	}
	for _, opt := range options {
		opt(r)
	}
	return r, nil
}

// Resolve returns the union of scopes granted by roleNames. On a cache miss
// the role store is queried and the result is written back with the
// configured TTL. Two concurrent misses for the same key may both query and
// both write; the computation is idempotent and the written value identical,
// so no locking is used. Store and cache failures propagate unmasked.
func (r *Resolver) Resolve(ctx context.Context, roleNames []Role) ([]scopes.Scope, error) {
	key := cacheKey(roleNames)

	cached, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver.Resolve] cache.Get")
	}
	if ok {
		var s []scopes.Scope
		if err := json.Unmarshal(cached, &s); err != nil {
			return nil, errors.Wrap(err, "[Resolver.Resolve] decode cached scopes")
		}
		return s, nil
	}

	resolved, err := r.repo.GetScopesByRoles(ctx, roleNames)
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver.Resolve] repo.GetScopesByRoles")
	}

	encoded, err := json.Marshal(resolved)
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver.Resolve] encode scopes")
	}
	if err := r.cache.Set(ctx, key, encoded, r.cacheTTL); err != nil {
		return nil, errors.Wrap(err, "[Resolver.Resolve] cache.Set")
	}

	return resolved, nil
}

// cacheKey canonicalizes the role set so lookups are order-independent.
func cacheKey(roleNames []Role) string {
	names := make([]string, 0, len(roleNames))
	for _, role := range roleNames {
		names = append(names, string(role))
	}
	sort.Strings(names)
	return cacheKeyPrefix + strings.Join(names, ",")
}
