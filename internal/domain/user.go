// Package domain contains the core business entities for the bloglist API.
// These are pure Go structs with no infrastructure dependencies.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
// Users create posts; the relation is stored on the post side only.
type User struct {
	// ID is the unique identifier. Repositories assign one when it is zero.
	ID uuid.UUID `json:"id"`

	// Username is the unique login name.
	// Constraints: at least 3 characters, compared exactly.
	Username string `json:"username"`

	// Name is the optional display name.
	Name string `json:"name"`

	// PasswordHash is the bcrypt hash of the user's password.
	// This should never be exposed in API responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the user registered.
	CreatedAt time.Time `json:"created_at"`
}

// NewUser creates a new User with a fresh ID.
func NewUser(username, name, passwordHash string) *User {
	return &User{
		ID:           uuid.New(),
		Username:     username,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}

// Ref returns the public projection of the user embedded in posts.
func (u *User) Ref() *UserRef {
	return &UserRef{ID: u.ID, Username: u.Username, Name: u.Name}
}

// UserRef is the creator projection rendered inside a post.
type UserRef struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}
