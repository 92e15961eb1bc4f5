package postgresrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storegate/auth-server/roles"
	"github.com/storegate/auth-server/scopes"
)

var _ roles.Repo = (*RoleRepo)(nil)

// RoleRepo is the Postgres-backed role store. Each role row carries its
// machine name and the array of scopes it grants.
type RoleRepo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *RoleRepo {
	return &RoleRepo{pool: pool}
}

// GetScopesByRoles returns the deduplicated union of the scope sets granted
// by the named roles. Unknown role names contribute nothing.
func (r *RoleRepo) GetScopesByRoles(ctx context.Context, roleNames []roles.Role) ([]scopes.Scope, error) {
	names := make([]string, 0, len(roleNames))
	for _, role := range roleNames {
		names = append(names, string(role))
	}

	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT unnest(scopes)
		FROM roles
		WHERE machine_name = ANY($1)`, names)
	if err != nil {
		return nil, fmt.Errorf("query role scopes: %w", err)
	}
	defer rows.Close()

	var union []scopes.Scope
	for rows.Next() {
		var scope string
		if err := rows.Scan(&scope); err != nil {
			return nil, fmt.Errorf("scan role scope: %w", err)
		}
		union = append(union, scopes.Scope(scope))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role scopes: %w", err)
	}
	return union, nil
}
