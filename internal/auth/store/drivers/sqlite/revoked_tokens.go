package sqlite

import (
	"context"
	"time"
)

type revokedTokensRepo struct {
	db dbtx
}

// Revoke inserts jti into the ledger. ON CONFLICT DO NOTHING makes the
// insert idempotent: a concurrent or repeated revoke of the same jti is a
// successful no-op, never a visible error.
func (r *revokedTokensRepo) Revoke(ctx context.Context, jti string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, revoked_at) VALUES (?, ?)
		 ON CONFLICT (jti) DO NOTHING`,
		jti, time.Now().UTC(),
	)
	return err
}

func (r *revokedTokensRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ?)`, jti,
	).Scan(&exists)
	return exists, err
}

func (r *revokedTokensRepo) DeleteRevokedBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE revoked_at < ?`, cutoff.UTC())
	return err
}
