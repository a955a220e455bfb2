package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/msk-clinic/clinic-portal/internal/core/domain"
)

// RBAC enforces role-based access control on the role claim set by Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(string)
			if _, ok := allowed[domain.Role(role)]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "access forbidden"})
			}
			return next(c)
		}
	}
}

// StaffRoles are the back-office roles allowed to work on quotes.
func StaffRoles() []domain.Role {
	var out []domain.Role
	for _, r := range domain.Roles() {
		if r.IsStaff() {
			out = append(out, r)
		}
	}
	return out
}
