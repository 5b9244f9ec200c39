package cryptox_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ticketloft/auth/pkg/cryptox"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := cryptox.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	t.Run("PHC encoded", func(t *testing.T) {
		require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
	})

	t.Run("correct password verifies", func(t *testing.T) {
		require.NoError(t, cryptox.VerifyPassword("correct horse battery staple", hash))
	})

	t.Run("wrong password mismatches", func(t *testing.T) {
		err := cryptox.VerifyPassword("incorrect horse", hash)
		require.ErrorIs(t, err, cryptox.ErrMismatch)
	})

	t.Run("salts are random", func(t *testing.T) {
		other, err := cryptox.HashPassword("correct horse battery staple")
		require.NoError(t, err)
		require.NotEqual(t, hash, other)
	})
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	cases := map[string]string{
		"empty":               "",
		"not a hash":          "plaintext",
		"wrong algorithm":     "$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"wrong version":       "$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"bad salt encoding":   "$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA",
		"missing hash part":   "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA",
		"garbage params":      "$argon2id$v=19$nope$c2FsdA$aGFzaA",
	}

	for name, encoded := range cases {
		t.Run(name, func(t *testing.T) {
			err := cryptox.VerifyPassword("whatever", encoded)
			require.Error(t, err)
			require.NotErrorIs(t, err, cryptox.ErrMismatch)
		})
	}
}
