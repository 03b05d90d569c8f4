package middleware

import (
	"github.com/labstack/echo/v4"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/utils"
	"pontodigital/cmd/internal/utils/apierror"
)

type SessionResolver interface {
	ResolveSession(token string) (*entity.Session, apierror.ErrorResponse)
}

type AuthMiddlewareConfig struct {
	Sessions SessionResolver
}

// NewAuthMiddleware creates the handler with dependencies injected
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get(echo.HeaderAuthorization)
			if token == "" {
				return c.JSON(apierror.UnauthorizedError.Code(), apierror.UnauthorizedError)
			}

			sess, apierr := cfg.Sessions.ResolveSession(token)
			if apierr != nil {
				return c.JSON(apierr.Code(), apierr)
			}

			utils.SetSession(c, sess)
			return next(c)
		}
	}
}

// RequirePermission rejects sessions whose current view lacks perm. It must
// run after the auth middleware.
func RequirePermission(perm entity.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, cerr := utils.GetSessionFromContext(c)
			if cerr != nil {
				return c.JSON(cerr.Code(), cerr)
			}

			if !sess.Role.Permissions().HasEffective(perm) {
				apierr := apierror.NewPermissionError(int64(perm))
				return c.JSON(apierr.Code(), apierr)
			}
			return next(c)
		}
	}
}
