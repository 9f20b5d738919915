package middleware

import (
	appctx "github.com/Ramsey-B/dahlia/pkg/context"
	"github.com/labstack/echo/v4"
)

// TestAuth middleware extracts user_id and role from headers when auth is disabled.
// This allows testing the API without a real JWT auth system.
// Headers:
//   - X-User-ID: The user ID
//   - X-User-Role: The user role
//
// WARNING: Only use this when AUTH_ENABLED=false. Do not enable in production.
func TestAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			userID := c.Request().Header.Get("X-User-ID")
			if userID != "" {
				ctx = appctx.SetUserID(ctx, userID)
			}

			role := c.Request().Header.Get("X-User-Role")
			if role != "" {
				ctx = appctx.SetUserRole(ctx, role)
			}

			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
