package jwtx

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes the two protocol slots a token can fill.
type TokenKind string

const (
	// KindAccess marks short-lived tokens authorizing direct API access.
	KindAccess TokenKind = "access"

	// KindRefresh marks long-lived tokens exchangeable for new access tokens.
	KindRefresh TokenKind = "refresh"
)

// Claims is the claim set carried inside every token this service issues:
// the registered sub/iat/exp/jti/iss fields plus the token kind. We keep
// changes additive so older tokens keep parsing.
type Claims struct {
	jwt.RegisteredClaims

	// Kind is the token kind, serialized as "type" ("access" | "refresh").
	Kind string `json:"type,omitempty"`
}

// IsKind reports whether the claims carry the given token kind.
func (c *Claims) IsKind(k TokenKind) bool {
	return c.Kind == string(k)
}

// ValidateIssuer checks the iss claim against the configured issuer. An
// empty expected issuer enforces nothing.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}

	if c.Issuer != expected {
		return fmt.Errorf("%w: issuer mismatch", ErrTokenInvalid)
	}

	return nil
}

// ValidateExpiry ensures the token has not expired as of now. A token is
// valid strictly before its exp timestamp; there is no grace window for
// clock skew, so the boundary instant itself is already expired.
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt == nil {
		return fmt.Errorf("%w: missing exp claim", ErrTokenInvalid)
	}

	if !now.Before(c.ExpiresAt.Time) {
		return ErrTokenExpired
	}

	return nil
}
