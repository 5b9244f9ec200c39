package service

import "errors"

// Every error below is a terminal verdict for the current request. Nothing
// in this package retries; failures surface to the transport layer as the
// request's outcome.
var (
	// ErrInvalidCredentials covers both "identity not found" and "password
	// does not verify". The two cases are deliberately indistinguishable so
	// a login response never leaks which one occurred.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrWrongTokenKind means a structurally valid token was presented in
	// the wrong protocol slot (a refresh token on the access path or vice
	// versa).
	ErrWrongTokenKind = errors.New("wrong_token_kind")

	// ErrTokenRevoked means the token verified and has not expired, but its
	// jti is in the revocation ledger.
	ErrTokenRevoked = errors.New("token_revoked")

	// ErrMissingCredential rejects registration or password-change input
	// without a required field.
	ErrMissingCredential = errors.New("missing_credential")

	// ErrDuplicateIdentity rejects registration with an email that already
	// has an account.
	ErrDuplicateIdentity = errors.New("duplicate_identity")
)
