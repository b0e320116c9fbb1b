package ports

import (
	"context"
	"time"

	"github.com/messagely/messaging-system/internal/core/domain"
)

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	// Create inserts msg and returns it with its id assigned. Returns
	// domain.ErrUserNotFound when either participant does not exist.
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	FindByID(ctx context.Context, id int64) (*domain.Message, error)
	// MarkRead sets read_at to at only if it is still unset, and returns the
	// stored value either way.
	MarkRead(ctx context.Context, id int64, at time.Time) (*domain.MessageRead, error)
	// ListTo and ListFrom return messages ordered by id ascending.
	ListTo(ctx context.Context, username string) ([]*domain.Message, error)
	ListFrom(ctx context.Context, username string) ([]*domain.Message, error)
}

// Sequence hands out monotonically increasing ids for stores that cannot
// generate them natively.
type Sequence interface {
	Next(ctx context.Context) (int64, error)
}
