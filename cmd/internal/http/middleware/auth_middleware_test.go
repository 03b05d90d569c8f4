package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/utils"
	"pontodigital/cmd/internal/utils/apierror"
)

type stubResolver map[string]*entity.Session

func (s stubResolver) ResolveSession(token string) (*entity.Session, apierror.ErrorResponse) {
	sess, ok := s[token]
	if !ok {
		return nil, apierror.InvalidAuthTokenError
	}
	return sess, nil
}

func newServer() *echo.Echo {
	resolver := stubResolver{
		"admin":    {ID: "1", Role: entity.RoleAdmin, CompanyCode: "ABC123"},
		"employee": {ID: "2", Role: entity.RoleEmployee, CompanyCode: "ABC123", Badge: "42"},
		"totem":    {ID: "3", Role: entity.RoleTotem, CompanyCode: "ABC123"},
	}

	e := echo.New()
	api := e.Group("/api", NewAuthMiddleware(&AuthMiddlewareConfig{Sessions: resolver}))
	api.GET("/me", func(c echo.Context) error {
		sess, apierr := utils.GetSessionFromContext(c)
		if apierr != nil {
			return c.JSON(apierr.Code(), apierr)
		}
		return c.String(http.StatusOK, sess.ID)
	})
	api.GET("/assistant", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequirePermission(entity.PermissionUseAssistant))
	return e
}

func TestAuthMiddleware(t *testing.T) {
	e := newServer()

	cases := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"missing header", "/api/me", "", http.StatusUnauthorized},
		{"unknown token", "/api/me", "nope", http.StatusUnauthorized},
		{"valid token", "/api/me", "employee", http.StatusOK},
		{"employee uses assistant", "/api/assistant", "employee", http.StatusNoContent},
		{"admin is effective everywhere", "/api/assistant", "admin", http.StatusNoContent},
		{"totem lacks permission", "/api/assistant", "totem", http.StatusForbidden},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.token != "" {
			req.Header.Set(echo.HeaderAuthorization, tc.token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != tc.status {
			t.Errorf("%s: expected %d, got %d (%s)", tc.name, tc.status, rec.Code, rec.Body.String())
		}
	}
}

func TestAuthMiddlewareStoresSession(t *testing.T) {
	e := newServer()

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "admin")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Body.String() != "1" {
		t.Fatalf("handler should see the resolved session, got %q", rec.Body.String())
	}
}
