// Package models holds the domain entities. Invariants are enforced at
// construction and on every mutation, so a *User in hand is always valid.
package models

import (
	"strings"
	"time"

	"github.com/avpetrov/authcore/internal/common"
)

// User is the authenticated subject. The id is immutable after creation and
// the password hash never holds a plaintext credential.
type User struct {
	id           string
	email        string
	passwordHash string
	isVerified   bool
	createdAt    time.Time
}

// NewUser validates and constructs a user. The email must contain "@" and
// the hash must be non-empty.
func NewUser(id, email, passwordHash string, isVerified bool, createdAt time.Time) (*User, error) {
	if !strings.Contains(email, "@") {
		return nil, common.ErrInvalidEmailFormat
	}
	if passwordHash == "" {
		return nil, common.ErrInvalidPassword
	}
	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		isVerified:   isVerified,
		createdAt:    createdAt,
	}, nil
}

func (u *User) ID() string           { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) IsVerified() bool     { return u.isVerified }
func (u *User) CreatedAt() time.Time { return u.createdAt }

// EntityID satisfies repository.Entity.
func (u *User) EntityID() string { return u.id }

// AccountAge returns how long ago the account was created.
func (u *User) AccountAge() time.Duration {
	return time.Since(u.createdAt)
}

// ChangeEmail replaces the email, re-validating the format invariant.
func (u *User) ChangeEmail(newEmail string) error {
	if !strings.Contains(newEmail, "@") {
		return common.ErrInvalidEmailFormat
	}
	u.email = newEmail
	return nil
}

// ChangePassword replaces the stored hash. Setting the same hash again is
// rejected, as is an empty one.
func (u *User) ChangePassword(newHash string) error {
	if u.passwordHash == newHash {
		return common.ErrPasswordUnchanged
	}
	if newHash == "" {
		return common.ErrInvalidPassword
	}
	u.passwordHash = newHash
	return nil
}

func (u *User) SetVerifiedStatus(verified bool) {
	u.isVerified = verified
}

// Fields exposes the filterable fields, keyed by column name. Used by the
// generic in-memory store; the SQL backend maps the same keys to columns.
func (u *User) Fields() map[string]any {
	return map[string]any{
		"id":            u.id,
		"email":         u.email,
		"password_hash": u.passwordHash,
		"is_verified":   u.isVerified,
		"created_at":    u.createdAt,
	}
}
