package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxSubjectID = "subject_id"
	CtxRole      = "role"
	CtxToken     = "token"
)

// SessionRegistry is the slice of the session store the middleware needs.
type SessionRegistry interface {
	RoleOf(token string) (domain.Role, bool)
	Touch(token string) (int64, error)
}

// ExtractToken pulls the bearer token from the Authorization header, falling
// back to the token query parameter. Returns "" when neither is present.
func ExtractToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.QueryParam("token")
}

// Auth guards a route group behind a live session with the required role.
// The role check runs before the keep-alive so that presenting a token to an
// endpoint of the wrong role does not extend the session's life.
func Auth(registry SessionRegistry, required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			role, ok := registry.RoleOf(token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}
			if role != required {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}

			subjectID, err := registry.Touch(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}

			c.Set(CtxSubjectID, subjectID)
			c.Set(CtxRole, role)
			c.Set(CtxToken, token)

			return next(c)
		}
	}
}
