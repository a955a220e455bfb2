package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/msk-clinic/clinic-portal/internal/api/middleware"
	"github.com/msk-clinic/clinic-portal/internal/core/domain"
)

// actorFromContext rebuilds the acting user from the claims injected by the
// Auth middleware. A missing subject or an unknown role means the token was
// not issued by this service and is rejected with 401.
func actorFromContext(c echo.Context) (*domain.User, error) {
	id, _ := c.Get(middleware.ContextUserID).(string)
	if id == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	rawRole, _ := c.Get(middleware.ContextRole).(string)
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "token carries an unknown role")
	}

	email, _ := c.Get(middleware.ContextEmail).(string)
	return &domain.User{ID: id, Email: email, Role: role}, nil
}
