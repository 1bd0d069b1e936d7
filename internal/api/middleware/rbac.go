package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return errNotAuthorized
			}
			if _, ok := allowed[user.Role]; !ok {
				return domain.Errorf(domain.ErrForbidden, "User role %s is not authorized to access this route", user.Role)
			}
			return next(c)
		}
	}
}
