package domain

import "time"

// TokenPair is what a successful login returns: the short-lived access token
// and the long-lived refresh token, each a self-contained signed JWT with
// its own jti and expiry. A refresh issues a new pair whose RefreshToken is
// empty; the presented refresh token stays valid until its own expiry.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token,omitempty"`
	TokenType    string        `json:"token_type"` // always "bearer"
	ExpiresIn    time.Duration `json:"-"`          // access token lifetime
}

// RevokedToken is one entry of the revocation ledger: once a token's jti
// lands here the token is void regardless of its expiry. Records are never
// updated and only deleted by housekeeping once older than the longest
// possible token lifetime.
type RevokedToken struct {
	JTI       string
	RevokedAt time.Time
}
