package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/messagely/messaging-system/internal/api/metrics"
	"github.com/messagely/messaging-system/internal/core/domain"
)

// RequireCorrectUser only lets the request through when the caller set by
// RequireLoggedIn matches the named path parameter.
func RequireCorrectUser(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, _ := c.Get(UsernameKey).(string)
			if caller == "" || caller != c.Param(param) {
				metrics.GuardRejectionsTotal.WithLabelValues("wrong_user").Inc()
				return domain.ErrUnauthorized
			}
			return next(c)
		}
	}
}
