package ports

import (
	"context"

	"github.com/messagely/messaging-system/internal/core/domain"
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, username, password string) (bool, error)
	// Identify resolves a session token to the caller's username. A missing,
	// invalid or orphaned token is reported as domain.ErrUnauthorized.
	Identify(ctx context.Context, token string) (string, error)
}

// TokenService issues and verifies stateless identity tokens.
type TokenService interface {
	Issue(username string) (string, error)
	Verify(token string) (string, error)
}

// LoginRecorder accepts last-login updates without blocking the caller.
type LoginRecorder interface {
	Record(username string)
}
