/*
Package user contains the user account model and its durable store.

The account itself is plain request/response CRUD; the realtime core only ever
consumes the user id.
*/
package user

import (
	"context"
	"time"
)

// User represents a registered account.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	ProfilePic string    `json:"profilePic"`
	Bio        string    `json:"bio"`
	CreatedAt  time.Time `json:"createdAt"`

	// PasswordHash never leaves the server.
	PasswordHash string `json:"-"`
}

// Store is the durable storage surface for user accounts.
type Store interface {
	// Create inserts a new account and fills the generated id and timestamps.
	Create(ctx context.Context, u *User) error

	// GetByEmail returns the account for the given email, or nil when absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID returns the account for the given id, or nil when absent.
	GetByID(ctx context.Context, id string) (*User, error)

	// ListOthers returns every account except selfID.
	ListOthers(ctx context.Context, selfID string) ([]User, error)

	// UpdateProfile updates the mutable profile fields. A nil profilePic
	// leaves the stored picture untouched. Returns the updated account,
	// or nil when the id is unknown.
	UpdateProfile(ctx context.Context, id, fullName, bio string, profilePic *string) (*User, error)
}
