package middleware

import (
	"net/http"

	appctx "github.com/Ramsey-B/dahlia/pkg/context"
	"github.com/labstack/echo/v4"
)

const RoleAdmin = "admin"

// RequireAdmin gates destructive endpoints on the admin role.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			if appctx.GetUserID(ctx) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			if appctx.GetUserRole(ctx) != RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}

			return next(c)
		}
	}
}
