package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/carvalue/marketplace-api/internal/core/domain"
)

// RequireAdmin restricts a route to administrators. Use it only where the
// route has no per-resource "not found" answer to give first.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !domain.IsAdmin(Actor(c)) {
				return domain.ErrUnauthorizedAccess
			}
			return next(c)
		}
	}
}
