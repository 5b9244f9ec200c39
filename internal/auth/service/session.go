package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/ticketloft/auth/internal/auth/domain"
	"github.com/ticketloft/auth/internal/auth/store"
	"github.com/ticketloft/auth/pkg/cryptox"
	"github.com/ticketloft/auth/pkg/jwtx"
	"github.com/ticketloft/auth/pkg/slogx"
)

// PasswordHasher is the credential hashing collaborator. The default
// implementation is Argon2id from pkg/cryptox; tests substitute a cheap
// fake so they don't pay the KDF cost per case.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Verify returns nil when password matches storedHash.
	Verify(password, storedHash string) error
}

// Argon2Passwords is the production PasswordHasher.
type Argon2Passwords struct{}

func (Argon2Passwords) Hash(password string) (string, error) {
	return cryptox.HashPassword(password)
}

func (Argon2Passwords) Verify(password, storedHash string) error {
	return cryptox.VerifyPassword(password, storedHash)
}

// SessionService implements the token issuance protocol: login, refresh,
// authenticated-request verification and logout, plus the account
// operations (register, password change) the HTTP surface exposes. It holds
// no per-session state of its own; everything a request needs travels in
// the token it presents, and the only mutable shared state is the
// revocation ledger behind Store.
type SessionService struct {
	Codec      *jwtx.Codec
	Store      store.Store
	Passwords  PasswordHasher
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Login validates the credentials and issues a fresh access/refresh pair.
// The two tokens are independent issuances: same subject, separate jtis,
// separate expiries. An unknown email, a passwordless account, an inactive
// account and a wrong password all fail with the same ErrInvalidCredentials.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	log := slogx.FromContext(ctx)

	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Active || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.Passwords.Verify(password, *user.PasswordHash); err != nil {
		log.Info("login failed", "email", email)
		return nil, ErrInvalidCredentials
	}

	subject := strconv.FormatInt(user.ID, 10)

	accessToken, _, err := s.Codec.Issue(subject, jwtx.KindAccess, s.AccessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, _, err := s.Codec.Issue(subject, jwtx.KindRefresh, s.RefreshTTL)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.AccessTTL,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated: it stays valid until its own expiry
// or explicit revocation. That is a known limitation of this scheme, not an
// oversight.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.verifyKind(ctx, refreshToken, jwtx.KindRefresh)
	if err != nil {
		return nil, err
	}

	accessToken, _, err := s.Codec.Issue(claims.Subject, jwtx.KindAccess, s.AccessTTL)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   s.AccessTTL,
	}, nil
}

// Authenticate verifies a presented access token all the way through:
// signature, issuer, expiry (always checked on this path), kind, and the
// revocation ledger. On success the claims are returned for downstream
// authorization use.
func (s *SessionService) Authenticate(ctx context.Context, token string) (jwtx.Claims, error) {
	return s.verifyKind(ctx, token, jwtx.KindAccess)
}

// Logout revokes the presented access token. The token must itself still be
// valid: a second logout with the same token fails verification with
// ErrTokenRevoked, since the first one already landed in the ledger.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	return s.Store.RevokedTokens().Revoke(ctx, claims.ID)
}

// Register creates a new account. Email and password are required; the
// exists-check and insert run in one transaction so two concurrent
// registrations of the same email cannot both succeed.
func (s *SessionService) Register(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredential
	}

	hash, err := s.Passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	var created domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByEmail(ctx, email); err == nil {
			return ErrDuplicateIdentity
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		created, err = tx.Users().CreateUser(ctx, domain.User{
			Email:        email,
			PasswordHash: &hash,
			FullName:     fullName,
			Active:       true,
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrDuplicateIdentity
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// ChangePassword replaces the caller's credential. The old password must
// verify against the stored hash before the new one is accepted; the
// read-verify-update runs in one transaction.
func (s *SessionService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrMissingCredential
	}

	newHash, err := s.Passwords.Hash(newPassword)
	if err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}

		if user.PasswordHash == nil {
			return ErrInvalidCredentials
		}
		if err := s.Passwords.Verify(oldPassword, *user.PasswordHash); err != nil {
			return ErrInvalidCredentials
		}

		return tx.Users().UpdatePasswordHash(ctx, userID, newHash)
	})
}

// GetUser loads a user record, for the profile endpoint.
func (s *SessionService) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// verifyKind runs the shared verification pipeline: codec verification with
// expiry checking enabled, then the kind check, then the ledger check. The
// order matters for the error taxonomy - a revoked but wrong-kind token
// reports the kind error.
func (s *SessionService) verifyKind(ctx context.Context, token string, kind jwtx.TokenKind) (jwtx.Claims, error) {
	claims, err := s.Codec.Verify(token, true)
	if err != nil {
		return jwtx.Claims{}, err
	}

	if !claims.IsKind(kind) {
		return jwtx.Claims{}, ErrWrongTokenKind
	}

	revoked, err := s.Store.RevokedTokens().IsRevoked(ctx, claims.ID)
	if err != nil {
		return jwtx.Claims{}, err
	}
	if revoked {
		return jwtx.Claims{}, ErrTokenRevoked
	}

	return claims, nil
}

// NormalizeEmail canonicalizes a login identity: trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SubjectID parses the numeric user id out of a token subject.
func SubjectID(subject string) (int64, error) {
	return strconv.ParseInt(subject, 10, 64)
}
