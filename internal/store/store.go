// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/molfartaro/molfa-bot/internal/domain"
)

// Repository defines the interface for persisting user contact data.
type Repository interface {
	// GetUser retrieves a user by their chat identity id.
	// Returns (nil, nil) when no profile is stored.
	GetUser(ctx context.Context, userID int64) (*domain.User, error)

	// UpsertUser creates or updates a user record. An existing quiz score
	// is preserved across contact re-shares.
	UpsertUser(ctx context.Context, user *domain.User) error

	// UpdateQuizScore records the user's latest quiz score. Concurrent
	// updates for the same user are last-write-wins.
	UpdateQuizScore(ctx context.Context, userID int64, score int) error

	// ListUserIDs returns the ids of all stored users, for broadcast fan-out.
	ListUserIDs(ctx context.Context) ([]int64, error)

	// Ping verifies database connectivity and returns an error if the
	// database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
