package handler

import (
	"time"

	"github.com/messagely/messaging-system/internal/core/domain"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username  string `json:"username"   validate:"required,max=64"`
	Password  string `json:"password"   validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Phone     string `json:"phone"      validate:"required"`
}

type createMessageRequest struct {
	ToUsername string `json:"to_username" validate:"required"`
	Body       string `json:"body"        validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type usersResponse struct {
	Users []domain.UserSummary `json:"users"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type messagesInResponse struct {
	Messages []domain.MessageIn `json:"messages"`
}

type messagesOutResponse struct {
	Messages []domain.MessageOut `json:"messages"`
}

type messageResponse struct {
	Message *domain.MessageDetail `json:"message"`
}

// createdMessage omits read_at, which is always null for a new message.
type createdMessage struct {
	ID           int64     `json:"id"`
	FromUsername string    `json:"from_username"`
	ToUsername   string    `json:"to_username"`
	Body         string    `json:"body"`
	SentAt       time.Time `json:"sent_at"`
}

type createdMessageResponse struct {
	Message createdMessage `json:"message"`
}

type messageReadResponse struct {
	MessageRead *domain.MessageRead `json:"messageRead"`
}

// errorResponse documents the error envelope for swagger.
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"error"`
}
