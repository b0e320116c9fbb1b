package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/messagely/messaging-system/internal/core/domain"
	"github.com/messagely/messaging-system/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger, now: time.Now}
}

// List returns the summary of every user, ordered by username.
func (s *UserService) List(ctx context.Context) ([]domain.UserSummary, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.UserSummary, len(users))
	for i, u := range users {
		out[i] = u.Summary()
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// UpdateLoginTimestamp stamps last_login_at with the current time.
func (s *UserService) UpdateLoginTimestamp(ctx context.Context, username string) error {
	at := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, username, at); err != nil {
		return err
	}
	s.logger.Debug().Str("username", username).Time("last_login_at", at).Msg("login timestamp updated")
	return nil
}
