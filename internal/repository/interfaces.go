// Package repository defines data access interfaces for the bloglist API.
// These interfaces abstract database operations, allowing for different implementations
// (PostgreSQL, SQLite, cached decorators) while keeping the service layer clean.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/prn-tf/bloglist/internal/domain"
)

// =============================================================================
// User Repository
// =============================================================================

// UserRepository defines the interface for user data access.
// Lookups report a missing record with an error matching ErrNotFound.
type UserRepository interface {
	// Create inserts a new user and assigns its ID.
	// Returns domain.ErrUserAlreadyExists when the username is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by exact username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]*domain.User, error)

	// Delete deletes a user and, through the schema, their posts.
	Delete(ctx context.Context, id uuid.UUID) error
}

// =============================================================================
// Post Repository
// =============================================================================

// PostRepository defines the interface for post data access.
// Reads populate Post.Creator.
type PostRepository interface {
	// Create inserts a new post and assigns its ID.
	Create(ctx context.Context, post *domain.Post) error

	// GetByID retrieves a post by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)

	// List returns all posts ordered by creation time.
	List(ctx context.Context) ([]*domain.Post, error)

	// Update stores the given fields of post id. Likes is written only when
	// set, so concurrent IncrementLikes calls are not overwritten.
	// The creator is never written.
	Update(ctx context.Context, id uuid.UUID, upd domain.PostUpdate) error

	// IncrementLikes atomically adds one like and returns the new count.
	IncrementLikes(ctx context.Context, id uuid.UUID) (int, error)

	// Delete deletes a post by ID. A post that is already gone is not found.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repositories holds all repository instances.
type Repositories struct {
	User UserRepository
	Post PostRepository
}

// DatabaseHealth is an interface for database health checks.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Close() error
}
