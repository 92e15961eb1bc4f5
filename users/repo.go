package users

import (
	"context"
	"errors"
)

// ErrNotFound is returned by repositories when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// UserRepo is the external credential store.
type UserRepo interface {
	Upsert(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	SetDeleted(ctx context.Context, id string, deleted bool) error
}
