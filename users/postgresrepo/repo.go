package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storegate/auth-server/roles"
	"github.com/storegate/auth-server/users"
)

var _ users.UserRepo = (*UserRepo)(nil)

// UserRepo is the Postgres-backed credential store.
type UserRepo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, username, email, first_name, last_name, password_hash, roles, email_verified, deleted, created_at, updated_at`

func (r *UserRepo) Upsert(ctx context.Context, user *users.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			password_hash = EXCLUDED.password_hash,
			roles = EXCLUDED.roles,
			email_verified = EXCLUDED.email_verified,
			deleted = EXCLUDED.deleted,
			updated_at = EXCLUDED.updated_at`,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName,
		user.PasswordHash, roleNames(user.Roles), user.EmailVerified,
		user.Deleted, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert user %q: %w", user.ID, err)
	}
	return nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password hash for %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UserRepo) SetDeleted(ctx context.Context, id string, deleted bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET deleted = $2, updated_at = now() WHERE id = $1`, id, deleted)
	if err != nil {
		return fmt.Errorf("set deleted for %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (*users.User, error) {
	var (
		user      users.User
		roleNames []string
	)
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
		&user.PasswordHash, &roleNames, &user.EmailVerified, &user.Deleted,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	user.Roles = make([]roles.Role, 0, len(roleNames))
	for _, name := range roleNames {
		user.Roles = append(user.Roles, roles.Role(name))
	}
	return &user, nil
}

func roleNames(userRoles []roles.Role) []string {
	names := make([]string, 0, len(userRoles))
	for _, role := range userRoles {
		names = append(names, string(role))
	}
	return names
}
