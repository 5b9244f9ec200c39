package domain

import "time"

type User struct {
	ID int64

	// Email is the login identity, stored lowercased.
	Email string

	// PasswordHash is the Argon2id PHC-encoded credential. Nil for
	// pre-provisioned records that have not set a password yet; such users
	// cannot log in until one is set.
	PasswordHash *string

	FullName  string
	Phone     string
	Active    bool
	CreatedAt time.Time
}
