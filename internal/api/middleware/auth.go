package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/ports"
)

const (
	// UserKey is the echo.Context key holding the authenticated *domain.User.
	UserKey = "user"
	// CookieName is the session cookie set on login and register.
	CookieName = "token"
)

var errNotAuthorized = &domain.Error{Kind: domain.ErrUnauthorized, Message: "Not authorized to access this route"}

// Auth resolves the session token from the Authorization header or the token
// cookie, loads the user and stores it under UserKey.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				if ck, err := c.Cookie(CookieName); err == nil {
					token = ck.Value
				}
			}
			if token == "" || token == "none" {
				return errNotAuthorized
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil || user == nil {
				return errNotAuthorized
			}

			c.Set(UserKey, user)
			return next(c)
		}
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CurrentUser returns the user stored by Auth, or nil on public routes.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(UserKey).(*domain.User)
	return u
}
