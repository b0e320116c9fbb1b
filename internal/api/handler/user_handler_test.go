package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/messagely/messaging-system/internal/core/domain"
)

func TestUserHandler_List(t *testing.T) {
	users := &stubUserService{
		listFn: func(ctx context.Context) ([]domain.UserSummary, error) {
			return []domain.UserSummary{
				{Username: "test1", FirstName: "Test1", LastName: "Testy1"},
				{Username: "test2", FirstName: "Test2", LastName: "Testy2"},
			}, nil
		},
	}
	h := NewUserHandler(users, &stubMessageService{})

	c, rec := newContext(http.MethodGet, "/users", nil, "test1")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Users []map[string]any `json:"users"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Users) != 2 || resp.Users[0]["username"] != "test1" {
		t.Fatalf("unexpected users: %+v", resp.Users)
	}
	if _, ok := resp.Users[0]["phone"]; ok {
		t.Fatalf("listing must not include phone")
	}
}

func TestUserHandler_Get(t *testing.T) {
	joined := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	users := &stubUserService{
		getFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{
				Username: username, PasswordHash: "secret-hash", FirstName: "Test1",
				LastName: "Testy1", Phone: "+14155550000", JoinAt: joined,
			}, nil
		},
	}
	h := NewUserHandler(users, &stubMessageService{})

	c, rec := newContext(http.MethodGet, "/users/test1", nil, "test1")
	setParam(c, "username", "test1")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		User map[string]any `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	for _, key := range []string{"username", "first_name", "last_name", "phone", "join_at", "last_login_at"} {
		if _, ok := resp.User[key]; !ok {
			t.Fatalf("missing %s in %+v", key, resp.User)
		}
	}
	if resp.User["last_login_at"] != nil {
		t.Fatalf("expected null last_login_at, got %v", resp.User["last_login_at"])
	}
	for key := range resp.User {
		if key == "password" || key == "PasswordHash" {
			t.Fatalf("password hash leaked")
		}
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	users := &stubUserService{
		getFn: func(ctx context.Context, username string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	h := NewUserHandler(users, &stubMessageService{})

	c, _ := newContext(http.MethodGet, "/users/ghost", nil, "ghost")
	setParam(c, "username", "ghost")

	he := requireHTTPError(t, h.Get(c), http.StatusNotFound)
	if he.Message != "No such user: ghost" {
		t.Fatalf("unexpected message: %v", he.Message)
	}
}

func TestUserHandler_MessagesTo(t *testing.T) {
	sent := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	msgs := &stubMessageService{
		listToFn: func(ctx context.Context, username string) ([]domain.MessageIn, error) {
			if username != "test2" {
				t.Fatalf("unexpected username %s", username)
			}
			return []domain.MessageIn{{ID: 1, Body: "hi", SentAt: sent, FromUser: domain.UserContact{Username: "test1"}}}, nil
		},
	}
	h := NewUserHandler(&stubUserService{}, msgs)

	c, rec := newContext(http.MethodGet, "/users/test2/to", nil, "test2")
	setParam(c, "username", "test2")
	if err := h.MessagesTo(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Messages []map[string]any `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(resp.Messages))
	}
	from, ok := resp.Messages[0]["from_user"].(map[string]any)
	if !ok || from["username"] != "test1" {
		t.Fatalf("expected from_user, got %+v", resp.Messages[0])
	}
}

func TestUserHandler_MessagesFrom_Empty(t *testing.T) {
	msgs := &stubMessageService{
		listFromFn: func(ctx context.Context, username string) ([]domain.MessageOut, error) {
			return []domain.MessageOut{}, nil
		},
	}
	h := NewUserHandler(&stubUserService{}, msgs)

	c, rec := newContext(http.MethodGet, "/users/test1/from", nil, "test1")
	setParam(c, "username", "test1")
	if err := h.MessagesFrom(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := rec.Body.String(); body != "{\"messages\":[]}\n" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestUserHandler_ListError(t *testing.T) {
	fault := errors.New("db down")
	users := &stubUserService{
		listFn: func(ctx context.Context) ([]domain.UserSummary, error) { return nil, fault },
	}
	h := NewUserHandler(users, &stubMessageService{})

	c, _ := newContext(http.MethodGet, "/users", nil, "test1")
	if err := h.List(c); !errors.Is(err, fault) {
		t.Fatalf("expected fault, got %v", err)
	}
}
