package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/messagely/messaging-system/internal/api/middleware"
	"github.com/messagely/messaging-system/internal/core/domain"
	"github.com/messagely/messaging-system/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Authenticate(context.Context, string, string) (bool, error) {
	return false, errors.New("not implemented")
}

func (s *stubAuthService) Identify(context.Context, string) (string, error) {
	return "", errors.New("not implemented")
}

type stubUserService struct {
	listFn func(ctx context.Context) ([]domain.UserSummary, error)
	getFn  func(ctx context.Context, username string) (*domain.User, error)
}

func (s *stubUserService) List(ctx context.Context) ([]domain.UserSummary, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) Get(ctx context.Context, username string) (*domain.User, error) {
	return s.getFn(ctx, username)
}

func (s *stubUserService) UpdateLoginTimestamp(context.Context, string) error { return nil }

type stubMessageService struct {
	getFn      func(ctx context.Context, caller string, id int64) (*domain.MessageDetail, error)
	createFn   func(ctx context.Context, in ports.CreateMessageInput) (*domain.Message, error)
	markReadFn func(ctx context.Context, caller string, id int64) (*domain.MessageRead, error)
	listToFn   func(ctx context.Context, username string) ([]domain.MessageIn, error)
	listFromFn func(ctx context.Context, username string) ([]domain.MessageOut, error)
}

func (s *stubMessageService) Get(ctx context.Context, caller string, id int64) (*domain.MessageDetail, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubMessageService) Create(ctx context.Context, in ports.CreateMessageInput) (*domain.Message, error) {
	return s.createFn(ctx, in)
}

func (s *stubMessageService) MarkRead(ctx context.Context, caller string, id int64) (*domain.MessageRead, error) {
	return s.markReadFn(ctx, caller, id)
}

func (s *stubMessageService) ListTo(ctx context.Context, username string) ([]domain.MessageIn, error) {
	return s.listToFn(ctx, username)
}

func (s *stubMessageService) ListFrom(ctx context.Context, username string) ([]domain.MessageOut, error) {
	return s.listFromFn(ctx, username)
}

// newContext builds an echo context with the validator installed and, when
// caller is non-empty, the identity RequireLoggedIn would have injected.
func newContext(method, target string, body io.Reader, caller string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller != "" {
		c.Set(middleware.UsernameKey, caller)
	}
	return c, rec
}

func setParam(c echo.Context, name, value string) {
	c.SetParamNames(name)
	c.SetParamValues(value)
}

func requireHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d (%v)", code, he.Code, he.Message)
	}
	return he
}

