package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/utils/apierror"
)

type stubCompany struct {
	removed string
	holiday *contract.HolidayRequest
}

func (s *stubCompany) GetCompany(actor *entity.Session) (*contract.CompanyResponse, apierror.ErrorResponse) {
	return &contract.CompanyResponse{ID: actor.CompanyCode, Name: "Padaria Central"}, nil
}

func (s *stubCompany) UpdateCompany(ctx context.Context, actor *entity.Session, req *contract.UpdateCompanyRequest) (*contract.CompanyResponse, apierror.ErrorResponse) {
	if req.Name == nil {
		return nil, apierror.MalformedBodyError
	}
	return &contract.CompanyResponse{ID: actor.CompanyCode, Name: *req.Name}, nil
}

func (s *stubCompany) GetHolidays(actor *entity.Session) ([]*contract.HolidayResponse, apierror.ErrorResponse) {
	return []*contract.HolidayResponse{{ID: "h1", Date: "2026-02-14"}}, nil
}

func (s *stubCompany) AddHoliday(actor *entity.Session, req *contract.HolidayRequest) (*contract.HolidayResponse, apierror.ErrorResponse) {
	s.holiday = req
	if req.Date == "2026-02-14" {
		return nil, apierror.HolidayExistsError
	}
	return &contract.HolidayResponse{ID: "h2", Date: req.Date}, nil
}

func (s *stubCompany) RemoveHoliday(actor *entity.Session, key string) apierror.ErrorResponse {
	s.removed = key
	return nil
}

func (s *stubCompany) RotateTotemSecret(actor *entity.Session) (*contract.TotemSecretResponse, apierror.ErrorResponse) {
	return &contract.TotemSecretResponse{Secret: "SECRET"}, nil
}

func (s *stubCompany) GetTotemCode(actor *entity.Session) (*contract.TotemCodeResponse, apierror.ErrorResponse) {
	return &contract.TotemCodeResponse{Code: "123456"}, nil
}

func (s *stubCompany) Dashboard(ctx context.Context, actor *entity.Session) (*contract.DashboardResponse, apierror.ErrorResponse) {
	if actor.Role != entity.RoleAdmin {
		return nil, apierror.NewPermissionError(int64(entity.PermissionAdministrator))
	}
	return &contract.DashboardResponse{PresentNow: []string{}}, nil
}

func newCompanyServer(company *stubCompany) *echo.Echo {
	routes := NewCompanyDefault(company)

	e := echo.New()
	e.GET("/company", routes.GetCompany, withSession)
	e.PATCH("/company", routes.UpdateCompany, withSession)
	e.GET("/company/holidays", routes.GetHolidays, withSession)
	e.POST("/company/holidays", routes.AddHoliday, withSession)
	e.DELETE("/company/holidays/:key", routes.RemoveHoliday, withSession)
	e.POST("/company/totem/secret", routes.RotateTotemSecret, withSession)
	e.GET("/company/totem/code", routes.GetTotemCode, withSession)
	e.GET("/company/dashboard", routes.Dashboard, withSession)
	return e
}

func TestCompanyRoutes(t *testing.T) {
	e := newCompanyServer(&stubCompany{})

	rec := serve(e, http.MethodGet, "/company", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"id":"ABC123"`) {
		t.Fatalf("unexpected company response %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, http.MethodPatch, "/company", echo.MIMEApplicationJSON, `{"name":"Padaria Nova"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"name":"Padaria Nova"`) {
		t.Fatalf("unexpected update response %d: %s", rec.Code, rec.Body.String())
	}

	if rec := serve(e, http.MethodPatch, "/company", echo.MIMEApplicationJSON, `{"name":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a broken body, got %d", rec.Code)
	}

	rec = serve(e, http.MethodGet, "/company/totem/code", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"code":"123456"`) {
		t.Fatalf("unexpected totem code response %d: %s", rec.Code, rec.Body.String())
	}

	if rec := serve(e, http.MethodPost, "/company/totem/secret", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if rec := serve(e, http.MethodGet, "/company/dashboard", "", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("the dashboard is for admins, got %d", rec.Code)
	}
}

func TestHolidayRoutes(t *testing.T) {
	company := &stubCompany{}
	e := newCompanyServer(company)

	rec := serve(e, http.MethodGet, "/company/holidays", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"holidays"`) {
		t.Fatalf("unexpected holidays response %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, http.MethodPost, "/company/holidays", echo.MIMEApplicationJSON, `{"date":"2026-04-21","description":"Tiradentes","type":"feriado"}`)
	if rec.Code != http.StatusCreated || company.holiday.Description != "Tiradentes" {
		t.Fatalf("unexpected add response %d: %s", rec.Code, rec.Body.String())
	}

	if rec := serve(e, http.MethodPost, "/company/holidays", echo.MIMEApplicationJSON, `{"date":"2026-02-14"}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	if rec := serve(e, http.MethodDelete, "/company/holidays/2026-02-14", "", ""); rec.Code != http.StatusNoContent || company.removed != "2026-02-14" {
		t.Fatalf("unexpected remove response %d, key %q", rec.Code, company.removed)
	}
}
