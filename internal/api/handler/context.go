package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uventlo/event-platform/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: both user_id and role
// must be present, their presence proves the middleware ran.
func ctxClaims(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get("user_id").(string)
	role, _ = c.Get("role").(string)
	if userID == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, role, nil
}

// requireSelfOrAdmin rejects callers that are neither the account in the path
// nor an administrator.
func requireSelfOrAdmin(c echo.Context, accountID string) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if role != domain.RoleAdmin && userID != accountID {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return nil
}
