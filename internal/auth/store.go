package auth

import (
	"context"
	"time"
)

// Store describes persistence operations required by the identity core.
// Email uniqueness is the store's responsibility: Create and Update must
// enforce it atomically at the storage layer, not via a read-before-write.
type Store interface {
	// Create persists a new identity. Returns ErrDuplicateEmail when the
	// email is already taken.
	Create(ctx context.Context, u *User) error
	// FindByID loads an identity without its password hash.
	FindByID(ctx context.Context, id string) (*User, error)
	// FindByEmailWithSecret is the only read path that exposes the hash,
	// used solely for credential verification.
	FindByEmailWithSecret(ctx context.Context, email string) (*User, error)
	// Update applies profile changes. An email change re-checks uniqueness.
	Update(ctx context.Context, id string, upd UserUpdate) (*User, error)
	// UpdatePassword replaces the hash and records the change time.
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error
	// TouchLastLogin records a successful login.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// UserUpdate carries optional profile changes. Nil fields are left as-is.
// Password changes are excluded here; they go through UpdatePassword.
type UserUpdate struct {
	Username *string
	Email    *string
}
