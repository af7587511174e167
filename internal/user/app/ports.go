package app

import (
	"context"

	"github.com/dwikikusuma/bookverse/internal/user/domain"
)

// UserRepo persists user records keyed by username.
type UserRepo interface {
	// Create stores a new record, failing with ErrDuplicateUsername or
	// ErrDuplicateEmail when either key is already taken.
	Create(ctx context.Context, u domain.User) error
	Get(ctx context.Context, username string) (domain.User, error)
	// Update applies fn to the stored record and writes it back atomically.
	// An error from fn aborts the write.
	Update(ctx context.Context, username string, fn func(u *domain.User) error) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
