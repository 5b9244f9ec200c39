// Package jwtx builds and verifies the HMAC-signed JWTs this service issues.
// A Codec owns the shared signing secret, the single active algorithm and
// the issuer string; issuance and verification both go through it so no
// other package touches key material.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ticketloft/auth/pkg/clock"
)

var (
	// ErrTokenExpired means the signature and issuer checked out but the
	// token's exp timestamp has passed.
	ErrTokenExpired = errors.New("jwtx: token expired")

	// ErrTokenInvalid covers every other verification failure: malformed
	// encoding, bad signature, wrong or missing issuer, unexpected
	// algorithm. Callers should not distinguish further.
	ErrTokenInvalid = errors.New("jwtx: invalid token")
)

// Config carries the immutable signing configuration. Values come from the
// environment at process start; the codec never reads ambient state, so
// tests can run several configurations side by side.
type Config struct {
	// Secret is the shared HMAC signing secret. Required.
	Secret []byte

	// Algorithm selects the HMAC variant: HS256 (default), HS384 or HS512.
	Algorithm string

	// Issuer is stamped into every token and enforced on verification.
	Issuer string
}

// Codec signs and verifies tokens with a single secret and algorithm.
type Codec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	issuer string
	clock  clock.Clock
}

// NewCodec validates cfg and returns a ready Codec. A nil clk falls back to
// the system clock.
func NewCodec(cfg Config, clk clock.Clock) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwtx: signing secret is required")
	}

	var method *jwt.SigningMethodHMAC
	switch cfg.Algorithm {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q", cfg.Algorithm)
	}

	if clk == nil {
		clk = clock.System{}
	}

	return &Codec{
		secret: cfg.Secret,
		method: method,
		issuer: cfg.Issuer,
		clock:  clk,
	}, nil
}

// Issue builds and signs a token for subject with the given kind and
// lifetime. It stamps iat with the current time, exp exactly ttl later, the
// configured issuer, and a fresh globally-unique jti. The jti is returned
// alongside the serialized token because the caller needs it to revoke this
// exact token later. Issue has no side effects beyond constructing the
// token.
func (c *Codec) Issue(subject string, kind TokenKind, ttl time.Duration) (token, jti string, err error) {
	now := c.clock.Now()
	jti = uuid.NewString()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
		Kind: string(kind),
	}

	token, err = jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", "", fmt.Errorf("jwtx: sign: %w", err)
	}

	return token, jti, nil
}

// Verify parses tokenStr, checks its signature against the configured
// secret, and enforces the configured issuer. Only the configured HMAC
// algorithm is accepted; a token claiming any other algorithm (including
// "none") fails with ErrTokenInvalid rather than being verified differently.
//
// When checkExpiry is true the exp claim is validated against the codec's
// clock. checkExpiry=false exists for diagnostic and administrative
// inspection of expired tokens only; the authenticated request path must
// always pass true.
func (c *Codec) Verify(tokenStr string, checkExpiry bool) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrTokenInvalid
	}

	if err := claims.ValidateIssuer(c.issuer); err != nil {
		return Claims{}, err
	}

	if checkExpiry {
		if err := claims.ValidateExpiry(c.clock.Now()); err != nil {
			return Claims{}, err
		}
	}

	return *claims, nil
}
