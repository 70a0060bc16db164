package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/carvalue/marketplace-api/internal/core/domain"
)

const (
	actorKey = "actor"
	tokenKey = "token"
)

// ActorResolver turns a bearer token into the caller's identity.
type ActorResolver interface {
	ResolveActor(ctx context.Context, token string) (*domain.Actor, error)
}

// Authenticate resolves the bearer token, when one is sent, and stores the
// actor in the request context. Requests without an Authorization header
// continue anonymously; a malformed or rejected token fails with 401.
func Authenticate(resolver ActorResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}
			token := strings.TrimSpace(parts[1])

			actor, err := resolver.ResolveActor(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return err
			}

			c.Set(actorKey, actor)
			c.Set(tokenKey, token)
			return next(c)
		}
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Actor(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// Actor returns the caller resolved by Authenticate, or nil for anonymous
// requests.
func Actor(c echo.Context) *domain.Actor {
	actor, _ := c.Get(actorKey).(*domain.Actor)
	return actor
}

// Token returns the raw bearer token of an authenticated request.
func Token(c echo.Context) string {
	token, _ := c.Get(tokenKey).(string)
	return token
}
