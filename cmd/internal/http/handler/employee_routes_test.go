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

type stubEmployees struct {
	targetID string
	updated  *contract.UpdateEmployeeRequest
}

func (s *stubEmployees) GetEmployees(actor *entity.Session) ([]*contract.EmployeeResponse, apierror.ErrorResponse) {
	return []*contract.EmployeeResponse{{ID: 1, Badge: "42"}}, nil
}

func (s *stubEmployees) GetEmployee(actor *entity.Session, rawID string) (*contract.EmployeeResponse, apierror.ErrorResponse) {
	s.targetID = rawID
	if rawID != "@me" && rawID != "1" {
		return nil, apierror.EmployeeNotFound
	}
	return &contract.EmployeeResponse{ID: 1, Badge: actor.Badge}, nil
}

func (s *stubEmployees) CreateEmployee(ctx context.Context, actor *entity.Session, req *contract.CreateEmployeeRequest) (*contract.EmployeeResponse, apierror.ErrorResponse) {
	return &contract.EmployeeResponse{ID: 2, Badge: req.Badge, Name: req.Name}, nil
}

func (s *stubEmployees) UpdateEmployee(ctx context.Context, actor *entity.Session, rawID string, req *contract.UpdateEmployeeRequest) (*contract.EmployeeResponse, apierror.ErrorResponse) {
	s.targetID = rawID
	s.updated = req
	return &contract.EmployeeResponse{ID: 1}, nil
}

func (s *stubEmployees) DeleteEmployee(ctx context.Context, actor *entity.Session, rawID string) apierror.ErrorResponse {
	s.targetID = rawID
	return apierror.NewPermissionError(int64(entity.PermissionManageEmployees))
}

func newEmployeeServer(employees *stubEmployees) *echo.Echo {
	routes := NewEmployeeDefault(employees)

	e := echo.New()
	e.GET("/employees", routes.GetEmployees, withSession)
	e.GET("/employees/:id", routes.GetEmployee, withSession)
	e.POST("/employees", routes.CreateEmployee, withSession)
	e.PATCH("/employees/:id", routes.UpdateEmployee, withSession)
	e.DELETE("/employees/:id", routes.DeleteEmployee, withSession)
	return e
}

func TestEmployeeRoutes(t *testing.T) {
	employees := &stubEmployees{}
	e := newEmployeeServer(employees)

	rec := serve(e, http.MethodGet, "/employees", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"employees"`) {
		t.Fatalf("unexpected list response %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, http.MethodGet, "/employees/@me", "", "")
	if rec.Code != http.StatusOK || employees.targetID != "@me" || !strings.Contains(rec.Body.String(), `"badge":"42"`) {
		t.Fatalf("unexpected profile response %d: %s", rec.Code, rec.Body.String())
	}

	if rec := serve(e, http.MethodGet, "/employees/9", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = serve(e, http.MethodPost, "/employees", echo.MIMEApplicationJSON, `{"name":"João","badge":"7"}`)
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), `"badge":"7"`) {
		t.Fatalf("unexpected create response %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, http.MethodPatch, "/employees/1", echo.MIMEApplicationJSON, `{"active":false}`)
	if rec.Code != http.StatusOK || employees.targetID != "1" {
		t.Fatalf("unexpected update response %d: %s", rec.Code, rec.Body.String())
	}
	if employees.updated.Active == nil || *employees.updated.Active || employees.updated.Name != nil {
		t.Fatalf("only sent fields should be set, got %+v", employees.updated)
	}

	if rec := serve(e, http.MethodPatch, "/employees/1", echo.MIMEApplicationJSON, `{"active":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a broken body, got %d", rec.Code)
	}

	if rec := serve(e, http.MethodDelete, "/employees/3", "", ""); rec.Code != http.StatusForbidden || employees.targetID != "3" {
		t.Fatalf("expected the service error, got %d", rec.Code)
	}
}
