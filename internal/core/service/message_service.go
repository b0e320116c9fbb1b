package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/messagely/messaging-system/internal/core/domain"
	"github.com/messagely/messaging-system/internal/core/ports"
)

type MessageService struct {
	messages ports.MessageRepository
	users    ports.UserRepository
	metrics  ports.Metrics
	logger   zerolog.Logger
	now      func() time.Time
}

func NewMessageService(messages ports.MessageRepository, users ports.UserRepository, metrics ports.Metrics, logger zerolog.Logger) *MessageService {
	return &MessageService{messages: messages, users: users, metrics: orNop(metrics), logger: logger, now: time.Now}
}

// Get returns the expanded message. A caller that is neither sender nor
// recipient gets domain.ErrUnauthorized; a missing id is reported first.
func (s *MessageService) Get(ctx context.Context, caller string, id int64) (*domain.MessageDetail, error) {
	msg, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !msg.IsParticipant(caller) {
		s.logger.Warn().Str("caller", caller).Int64("message_id", id).Msg("message read denied")
		return nil, domain.ErrUnauthorized
	}

	contacts := newContactCache(s.users)
	from, err := contacts.get(ctx, msg.FromUsername)
	if err != nil {
		return nil, err
	}
	to, err := contacts.get(ctx, msg.ToUsername)
	if err != nil {
		return nil, err
	}

	return &domain.MessageDetail{
		ID:       msg.ID,
		Body:     msg.Body,
		SentAt:   msg.SentAt,
		ReadAt:   msg.ReadAt,
		FromUser: from,
		ToUser:   to,
	}, nil
}

// Create stores a new message from the caller. The recipient must exist.
func (s *MessageService) Create(ctx context.Context, in ports.CreateMessageInput) (*domain.Message, error) {
	if in.FromUsername == "" || in.ToUsername == "" || in.Body == "" {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.users.FindByUsername(ctx, in.ToUsername); err != nil {
		return nil, err
	}

	created, err := s.messages.Create(ctx, &domain.Message{
		FromUsername: in.FromUsername,
		ToUsername:   in.ToUsername,
		Body:         in.Body,
		SentAt:       s.now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("from", in.FromUsername).Str("to", in.ToUsername).Msg("failed to create message")
		return nil, err
	}

	s.metrics.MessageSent()
	s.logger.Info().Int64("message_id", created.ID).Str("from", created.FromUsername).Str("to", created.ToUsername).Msg("message sent")
	return created, nil
}

// MarkRead stamps read_at once. Only the recipient may do so; repeated calls
// return the first timestamp.
func (s *MessageService) MarkRead(ctx context.Context, caller string, id int64) (*domain.MessageRead, error) {
	msg, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.ToUsername != caller {
		s.logger.Warn().Str("caller", caller).Int64("message_id", id).Msg("mark read denied")
		return nil, domain.ErrUnauthorized
	}

	read, err := s.messages.MarkRead(ctx, id, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if msg.ReadAt == nil {
		s.metrics.MessageRead()
	}
	return read, nil
}

func (s *MessageService) ListTo(ctx context.Context, username string) ([]domain.MessageIn, error) {
	msgs, err := s.messages.ListTo(ctx, username)
	if err != nil {
		return nil, err
	}

	contacts := newContactCache(s.users)
	out := make([]domain.MessageIn, 0, len(msgs))
	for _, m := range msgs {
		from, err := contacts.get(ctx, m.FromUsername)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.MessageIn{
			ID:       m.ID,
			Body:     m.Body,
			SentAt:   m.SentAt,
			ReadAt:   m.ReadAt,
			FromUser: from,
		})
	}
	return out, nil
}

func (s *MessageService) ListFrom(ctx context.Context, username string) ([]domain.MessageOut, error) {
	msgs, err := s.messages.ListFrom(ctx, username)
	if err != nil {
		return nil, err
	}

	contacts := newContactCache(s.users)
	out := make([]domain.MessageOut, 0, len(msgs))
	for _, m := range msgs {
		to, err := contacts.get(ctx, m.ToUsername)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.MessageOut{
			ID:     m.ID,
			Body:   m.Body,
			SentAt: m.SentAt,
			ReadAt: m.ReadAt,
			ToUser: to,
		})
	}
	return out, nil
}

// contactCache memoises user lookups for the duration of one request.
type contactCache struct {
	users ports.UserRepository
	seen  map[string]domain.UserContact
}

func newContactCache(users ports.UserRepository) *contactCache {
	return &contactCache{users: users, seen: make(map[string]domain.UserContact)}
}

func (c *contactCache) get(ctx context.Context, username string) (domain.UserContact, error) {
	if uc, ok := c.seen[username]; ok {
		return uc, nil
	}
	u, err := c.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.UserContact{}, fmt.Errorf("message participant %s: %w", username, err)
		}
		return domain.UserContact{}, err
	}
	uc := u.Contact()
	c.seen[username] = uc
	return uc, nil
}
