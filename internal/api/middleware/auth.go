package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/messagely/messaging-system/internal/api/metrics"
	"github.com/messagely/messaging-system/internal/core/domain"
)

// UsernameKey is the echo context key holding the authenticated caller.
const UsernameKey = "username"

// TokenField is the request field carrying the session token.
const TokenField = "_token"

// MaxBodyBytes bounds how much of a JSON body is buffered to look for the
// token. The router's body limit uses the same value.
const MaxBodyBytes = 1 << 20

const maxTokenBody = MaxBodyBytes

// Identifier resolves a session token to a username.
type Identifier interface {
	Identify(ctx context.Context, token string) (string, error)
}

// RequireLoggedIn verifies the session token and injects the caller username
// into the context. The token is read from the query string, then from a
// JSON body, then from a form body.
func RequireLoggedIn(identifier Identifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractToken(c)
			if err != nil {
				return err
			}
			if token == "" {
				metrics.GuardRejectionsTotal.WithLabelValues("missing_token").Inc()
				return domain.ErrUnauthorized
			}

			username, err := identifier.Identify(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					metrics.GuardRejectionsTotal.WithLabelValues("invalid_token").Inc()
				}
				return err
			}

			c.Set(UsernameKey, username)
			return next(c)
		}
	}
}

func extractToken(c echo.Context) (string, error) {
	if t := c.QueryParam(TokenField); t != "" {
		return t, nil
	}

	req := c.Request()
	if req.Body == nil || req.Body == http.NoBody {
		return "", nil
	}

	ctype := req.Header.Get(echo.HeaderContentType)
	switch {
	case strings.HasPrefix(ctype, echo.MIMEApplicationJSON):
		return tokenFromJSON(req)
	case strings.HasPrefix(ctype, echo.MIMEApplicationForm), strings.HasPrefix(ctype, echo.MIMEMultipartForm):
		return c.FormValue(TokenField), nil
	}
	return "", nil
}

// tokenFromJSON peeks at the body and restores it for the handler's Bind.
// Bodies over maxTokenBody are rejected rather than replayed truncated.
func tokenFromJSON(req *http.Request) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(req.Body, maxTokenBody+1))
	_ = req.Body.Close()
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return "", he
		}
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(raw) > maxTokenBody {
		return "", echo.ErrStatusRequestEntityTooLarge
	}
	req.Body = io.NopCloser(bytes.NewReader(raw))

	var payload struct {
		Token string `json:"_token"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", nil
	}
	return payload.Token, nil
}
