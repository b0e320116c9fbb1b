package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/messagely/messaging-system/internal/core/domain"
	"github.com/messagely/messaging-system/internal/core/ports"
)

// AuthService implements registration, login and token identification.
type AuthService struct {
	repo       ports.UserRepository
	tokens     ports.TokenService
	recorder   ports.LoginRecorder
	metrics    ports.Metrics
	bcryptCost int
	logger     zerolog.Logger
	now        func() time.Time
}

func NewAuthService(
	repo ports.UserRepository,
	tokens ports.TokenService,
	recorder ports.LoginRecorder,
	metrics ports.Metrics,
	bcryptCost int,
	logger zerolog.Logger,
) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		repo:       repo,
		tokens:     tokens,
		recorder:   recorder,
		metrics:    orNop(metrics),
		bcryptCost: bcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates the account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	if in.Username == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" || in.Phone == "" {
		return "", nil, domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return "", nil, err
	}

	user := &domain.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		JoinAt:       s.now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.metrics.RegistrationAttempted(true)
		}
		return "", nil, err
	}

	token, err := s.tokens.Issue(created.Username)
	if err != nil {
		return "", nil, err
	}

	s.metrics.RegistrationAttempted(false)
	s.logger.Info().Str("username", created.Username).Msg("user registered")
	return token, created, nil
}

// Authenticate reports whether password matches the stored hash. An unknown
// username is a mismatch, not an error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil, nil
}

// Login authenticates the credentials, issues a token and queues the
// last-login update. The update never delays or fails the login.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrInvalidInput
	}

	ok, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		s.metrics.LoginAttempted(false)
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(username)
	if err != nil {
		return "", err
	}

	s.recorder.Record(username)
	s.metrics.LoginAttempted(true)
	return token, nil
}

// Identify verifies token and confirms the embedded username still exists.
// Storage faults are returned as-is so they surface as server errors rather
// than as a rejected session.
func (s *AuthService) Identify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}

	username, err := s.tokens.Verify(token)
	if err != nil {
		return "", domain.ErrUnauthorized
	}

	if _, err := s.repo.FindByUsername(ctx, username); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", fmt.Errorf("identify %s: %w", username, err)
	}
	return username, nil
}
