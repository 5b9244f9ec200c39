package store

import (
	"context"
	"errors"
	"time"

	"github.com/ticketloft/auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement it. It exposes sub-repositories to keep concerns separated and
// individually fakeable in tests.
type Store interface {
	Users() Users
	RevokedTokens() RevokedTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying database handle.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store: the same repositories plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByEmail looks a user up by their login identity. The caller
	// is expected to normalize the email first.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByID returns a user by numeric id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// CreateUser inserts a new user and returns it with the assigned id.
	// A duplicate email maps to ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	// UpdatePasswordHash replaces the stored credential hash.
	UpdatePasswordHash(ctx context.Context, userID int64, newHash string) error

	// CountUsers returns the total number of users (used by readiness and
	// seeding checks).
	CountUsers(ctx context.Context) (int64, error)
}

// RevokedTokens is the revocation ledger. Revoke is linearizable with
// respect to IsRevoked for the same jti: once Revoke returns, every
// subsequent IsRevoked observes true, from any goroutine.
type RevokedTokens interface {
	// Revoke inserts jti into the ledger. Idempotent: revoking an
	// already-revoked jti succeeds without error, including when two
	// callers race on the same jti.
	Revoke(ctx context.Context, jti string) error

	// IsRevoked reports whether jti is present in the ledger.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// DeleteRevokedBefore prunes records revoked before cutoff. Safe only
	// when cutoff is at least the maximum token lifetime in the past, so
	// every pruned jti belongs to a token that has expired anyway.
	DeleteRevokedBefore(ctx context.Context, cutoff time.Time) error
}
