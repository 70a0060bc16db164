package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carvalue/marketplace-api/internal/api/middleware"
	"github.com/carvalue/marketplace-api/internal/core/domain"
)

// actor returns the caller resolved by the Authenticate middleware, nil when
// anonymous.
func actor(c echo.Context) *domain.Actor {
	return middleware.Actor(c)
}

// bindAndValidate decodes the request into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
