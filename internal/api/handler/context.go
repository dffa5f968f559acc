package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/task-system/internal/core/ports"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: a missing user id
// means the middleware did not run or the token carried no subject.
func ctxIdentity(c echo.Context) (ports.Identity, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return ports.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	email, _ := c.Get("email").(string)
	superuser, _ := c.Get("is_superuser").(bool)

	return ports.Identity{UserID: userID, Email: email, IsSuperuser: superuser}, nil
}
