package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/messagely/messaging-system/internal/core/domain"
	"github.com/messagely/messaging-system/internal/core/ports"
)

// UserHandler serves user lookups and per-user message listings.
type UserHandler struct {
	users    ports.UserService
	messages ports.MessageService
}

func NewUserHandler(users ports.UserService, messages ports.MessageService) *UserHandler {
	return &UserHandler{users: users, messages: messages}
}

// List returns every user.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        _token  query     string  true  "Session token"
// @Success      200     {object}  usersResponse
// @Failure      401     {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersResponse{Users: users})
}

// Get returns the caller's own profile.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Param        _token    query     string  true  "Session token"
// @Success      200       {object}  userResponse
// @Failure      401       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /users/{username} [get]
func (h *UserHandler) Get(c echo.Context) error {
	username := c.Param("username")

	user, err := h.users.Get(c.Request().Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("No such user: %s", username))
		}
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// MessagesTo lists messages received by the user.
//
// @Summary      Messages to user
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Param        _token    query     string  true  "Session token"
// @Success      200       {object}  messagesInResponse
// @Failure      401       {object}  errorResponse
// @Router       /users/{username}/to [get]
func (h *UserHandler) MessagesTo(c echo.Context) error {
	msgs, err := h.messages.ListTo(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messagesInResponse{Messages: msgs})
}

// MessagesFrom lists messages sent by the user.
//
// @Summary      Messages from user
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Param        _token    query     string  true  "Session token"
// @Success      200       {object}  messagesOutResponse
// @Failure      401       {object}  errorResponse
// @Router       /users/{username}/from [get]
func (h *UserHandler) MessagesFrom(c echo.Context) error {
	msgs, err := h.messages.ListFrom(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messagesOutResponse{Messages: msgs})
}
