package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/utils"
	"pontodigital/cmd/internal/utils/apierror"
)

type stubRecords struct {
	punched *contract.PunchRequest
}

func (s *stubRecords) Punch(ctx context.Context, actor *entity.Session, req *contract.PunchRequest) (*contract.RecordResponse, apierror.ErrorResponse) {
	if req.Photo == "" {
		return nil, apierror.InvalidPhotoError
	}
	s.punched = req
	return &contract.RecordResponse{ID: "1", Badge: actor.Badge, Type: "entrada", Status: "pending"}, nil
}

func (s *stubRecords) GetRecords(ctx context.Context, actor *entity.Session, badge string) ([]*contract.RecordResponse, apierror.ErrorResponse) {
	return []*contract.RecordResponse{{ID: "1", Badge: badge}}, nil
}

func (s *stubRecords) Timeline(ctx context.Context, actor *entity.Session, badge, rawDate string) (*contract.TimelineResponse, apierror.ErrorResponse) {
	return &contract.TimelineResponse{Date: rawDate, NextType: "entrada"}, nil
}

func (s *stubRecords) History(ctx context.Context, actor *entity.Session, badge string) ([]*contract.DayGroupResponse, apierror.ErrorResponse) {
	return []*contract.DayGroupResponse{}, nil
}

type stubExports struct{}

func (stubExports) Ledger(ctx context.Context, actor *entity.Session, badge string) ([]byte, apierror.ErrorResponse) {
	return []byte("02/03/2026 08:00:00 | entrada | Rua A, 1\n"), nil
}

func (stubExports) Metadata(ctx context.Context, actor *entity.Session, userAgent, remoteIP string) (*contract.DeviceMetadata, apierror.ErrorResponse) {
	return &contract.DeviceMetadata{UserAgent: userAgent}, nil
}

func (stubExports) Spreadsheet(ctx context.Context, actor *entity.Session, badge string) ([]byte, apierror.ErrorResponse) {
	return nil, apierror.NewPermissionError(int64(entity.PermissionExport))
}

func withSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		utils.SetSession(c, &entity.Session{ID: "s", Role: entity.RoleEmployee, CompanyCode: "ABC123", Badge: "42"})
		return next(c)
	}
}

func newRecordServer(records *stubRecords) *echo.Echo {
	routes := NewRecordDefault(records, stubExports{})

	e := echo.New()
	e.POST("/records", routes.Punch, withSession)
	e.GET("/records", routes.GetRecords, withSession)
	e.GET("/records/timeline", routes.Timeline, withSession)
	e.GET("/exports/ledger", routes.ExportLedger, withSession)
	e.GET("/exports/spreadsheet", routes.ExportSpreadsheet, withSession)
	e.GET("/anonymous", routes.GetRecords)
	return e
}

func serve(e *echo.Echo, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPunchRoute(t *testing.T) {
	records := &stubRecords{}
	e := newRecordServer(records)

	rec := serve(e, http.MethodPost, "/records", echo.MIMEApplicationJSON, `{"photo":"abc","mood":"feliz"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if records.punched == nil || records.punched.Mood != "feliz" {
		t.Fatalf("request was not bound: %+v", records.punched)
	}

	var resp contract.RecordResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Badge != "42" {
		t.Fatalf("unexpected body %s: %v", rec.Body.String(), err)
	}

	if rec := serve(e, http.MethodPost, "/records", echo.MIMETextPlain, "photo"); rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}

	if rec := serve(e, http.MethodPost, "/records", echo.MIMEApplicationJSON, `{"photo":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a broken body, got %d", rec.Code)
	}

	if rec := serve(e, http.MethodPost, "/records", echo.MIMEApplicationJSON, `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected the service error, got %d", rec.Code)
	}
}

func TestRecordQueries(t *testing.T) {
	e := newRecordServer(&stubRecords{})

	rec := serve(e, http.MethodGet, "/records?badge=7", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"records"`) {
		t.Fatalf("unexpected records response %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, http.MethodGet, "/records/timeline?date=2026-03-02", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"date":"2026-03-02"`) {
		t.Fatalf("unexpected timeline response %d: %s", rec.Code, rec.Body.String())
	}

	if rec := serve(e, http.MethodGet, "/anonymous", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("routes without a session should be rejected, got %d", rec.Code)
	}
}

func TestExportRoutes(t *testing.T) {
	e := newRecordServer(&stubRecords{})

	rec := serve(e, http.MethodGet, "/exports/ledger", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderContentDisposition); got != `attachment; filename="registros.txt"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if !strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain) {
		t.Fatalf("unexpected content type %q", rec.Header().Get(echo.HeaderContentType))
	}

	rec = serve(e, http.MethodGet, "/exports/spreadsheet", "", "")
	if rec.Code != http.StatusForbidden || rec.Header().Get(echo.HeaderContentDisposition) != "" {
		t.Fatalf("failed exports should not be attachments, got %d", rec.Code)
	}
}
