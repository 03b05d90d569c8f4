package utils

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/utils/apierror"
)

const SessionContextKey = "session"

// SetSession stores the session resolved by the auth middleware.
func SetSession(c echo.Context, sess *entity.Session) {
	c.Set(SessionContextKey, sess)
}

// GetSessionFromContext returns the request's session. Every session is bound
// to a company, one without a company code is treated as corrupt.
func GetSessionFromContext(c echo.Context) (*entity.Session, apierror.ErrorResponse) {
	val := c.Get(SessionContextKey)
	if val == nil {
		log.Warnf("%s %s read a session outside the auth group", c.Request().Method, c.Path())
		return nil, apierror.UnauthorizedError
	}

	sess, ok := val.(*entity.Session)
	if !ok || sess == nil {
		log.Errorf("context key %q holds %T instead of a session", SessionContextKey, val)
		return nil, apierror.InternalServerError
	}

	if sess.CompanyCode == "" {
		log.Errorf("session %s has no company bound", sess.ID)
		return nil, apierror.UnauthorizedError
	}
	return sess, nil
}
