package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/devcamper/bootcamp-api/internal/api/middleware"
	"github.com/devcamper/bootcamp-api/internal/core/domain"
)

// actor returns the authenticated user. Routes that call it are mounted
// behind the Auth middleware, so a missing user means a wiring mistake.
func actor(c echo.Context) (*domain.User, error) {
	u := middleware.CurrentUser(c)
	if u == nil {
		return nil, &domain.Error{Kind: domain.ErrUnauthorized, Message: "Not authorized to access this route"}
	}
	return u, nil
}

// bindValid binds the request body into req and validates it.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return &domain.Error{Kind: domain.ErrValidation, Message: "Invalid request body"}
	}
	return c.Validate(req)
}
