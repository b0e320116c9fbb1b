package ports

import (
	"context"
	"time"

	"github.com/messagely/messaging-system/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrUserExists when the
	// username is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns every user ordered by username ascending.
	List(ctx context.Context) ([]*domain.User, error)
	UpdateLastLogin(ctx context.Context, username string, at time.Time) error
}
