package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Superuser restricts a route to callers whose token carries the
// superuser flag.
func Superuser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if superuser, _ := c.Get("is_superuser").(bool); !superuser {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
