package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/messagely/messaging-system/internal/api/middleware"
	"github.com/messagely/messaging-system/internal/core/domain"
)

// callerUsername returns the identity injected by RequireLoggedIn. An empty
// value means the route was mounted without the guard; fail closed.
func callerUsername(c echo.Context) (string, error) {
	username, _ := c.Get(middleware.UsernameKey).(string)
	if username == "" {
		return "", domain.ErrUnauthorized
	}
	return username, nil
}
