package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ticketloft/auth/internal/auth/domain"
	"github.com/ticketloft/auth/internal/auth/store"
	"github.com/ticketloft/auth/internal/auth/store/drivers/sqlite"
)

// newTestStore opens a fresh database in a per-test temp dir with migrations
// applied.
func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func strPtr(s string) *string { return &s }

func TestPing(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Ping(context.Background()))
}

func TestWithTxCommit(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().CreateUser(ctx, domain.User{
			Email:        "alice@example.com",
			PasswordHash: strPtr("hash"),
			Active:       true,
		})
		return err
	})
	require.NoError(t, err)

	_, err = st.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
}

func TestWithTxRollback(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	sentinel := errors.New("boom")
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().CreateUser(ctx, domain.User{
			Email:        "bob@example.com",
			PasswordHash: strPtr("hash"),
			Active:       true,
		}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = st.Users().GetUserByEmail(ctx, "bob@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}
