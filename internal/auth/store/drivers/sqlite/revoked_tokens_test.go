package sqlite_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRevokeAndIsRevoked(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	revoked, err := st.RevokedTokens().IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, st.RevokedTokens().Revoke(ctx, "jti-1"))

	revoked, err = st.RevokedTokens().IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)

	t.Run("other jtis unaffected", func(t *testing.T) {
		revoked, err := st.RevokedTokens().IsRevoked(ctx, "jti-2")
		require.NoError(t, err)
		require.False(t, revoked)
	})
}

func TestRevokeIdempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.RevokedTokens().Revoke(ctx, "jti-1"))
	require.NoError(t, st.RevokedTokens().Revoke(ctx, "jti-1"))

	revoked, err := st.RevokedTokens().IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestRevokeConcurrent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- st.RevokedTokens().Revoke(ctx, "jti-contended")
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	revoked, err := st.RevokedTokens().IsRevoked(ctx, "jti-contended")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestDeleteRevokedBefore(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.RevokedTokens().Revoke(ctx, "jti-1"))

	t.Run("old cutoff keeps fresh records", func(t *testing.T) {
		require.NoError(t, st.RevokedTokens().DeleteRevokedBefore(ctx, time.Now().Add(-time.Hour)))

		revoked, err := st.RevokedTokens().IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		require.True(t, revoked)
	})

	t.Run("future cutoff prunes them", func(t *testing.T) {
		require.NoError(t, st.RevokedTokens().DeleteRevokedBefore(ctx, time.Now().Add(time.Hour)))

		revoked, err := st.RevokedTokens().IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		require.False(t, revoked)
	})
}
