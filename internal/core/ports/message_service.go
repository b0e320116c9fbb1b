package ports

import (
	"context"

	"github.com/messagely/messaging-system/internal/core/domain"
)

// CreateMessageInput is the DTO passed from the transport layer to
// MessageService. FromUsername is always the authenticated caller.
type CreateMessageInput struct {
	FromUsername string
	ToUsername   string
	Body         string
}

// MessageService enforces who may see and mutate a message.
type MessageService interface {
	// Get returns the message when caller is its sender or recipient.
	Get(ctx context.Context, caller string, id int64) (*domain.MessageDetail, error)
	Create(ctx context.Context, input CreateMessageInput) (*domain.Message, error)
	// MarkRead is allowed for the recipient only.
	MarkRead(ctx context.Context, caller string, id int64) (*domain.MessageRead, error)
	ListTo(ctx context.Context, username string) ([]domain.MessageIn, error)
	ListFrom(ctx context.Context, username string) ([]domain.MessageOut, error)
}
