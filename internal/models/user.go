package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered ledger owner.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the login name. Uniqueness is case-sensitive:
	// "Alice" and "alice" are two different users.
	Username string

	// PasswordHash is the bcrypt hash of the user's password.
	// The plaintext password is never stored.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was registered.
	CreatedAt int64
}

// NewUser creates a User with a generated ID and creation timestamp.
func NewUser(username, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}

// Account is a named bucket that transactions attach to. Accounts are
// owned by exactly one user and are never deleted independently of them.
type Account struct {
	ID        int64
	UserID    string
	Name      string
	CreatedAt int64
}

// DefaultAccountName is the name given to the account created lazily on a
// user's first login.
const DefaultAccountName = "Default"
