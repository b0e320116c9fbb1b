package ports

import (
	"context"

	"github.com/messagely/messaging-system/internal/core/domain"
)

type UserService interface {
	List(ctx context.Context) ([]domain.UserSummary, error)
	Get(ctx context.Context, username string) (*domain.User, error)
	UpdateLoginTimestamp(ctx context.Context, username string) error
}
