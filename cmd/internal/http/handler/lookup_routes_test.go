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

type stubLookup struct {
	asked []string
}

func (s *stubLookup) GetCompanyByCNPJ(ctx context.Context, actor *entity.Session, cnpj string) (*contract.LookupResponse, apierror.ErrorResponse) {
	s.asked = append(s.asked, cnpj)
	return &contract.LookupResponse{CNPJ: cnpj, LegalName: "Padaria Central LTDA"}, nil
}

func TestLookupRoute(t *testing.T) {
	lookup := &stubLookup{}
	routes := NewLookupRoute(lookup)

	e := echo.New()
	e.GET("/lookup/:cnpj", routes.GetCompany, withSession)

	rec := serve(e, http.MethodGet, "/lookup/11.222.333-0001-81", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"legal_name":"Padaria Central LTDA"`) {
		t.Fatalf("unexpected lookup response %d: %s", rec.Code, rec.Body.String())
	}
	if len(lookup.asked) != 1 || lookup.asked[0] != "11222333000181" {
		t.Fatalf("the service should get the normalized CNPJ, got %v", lookup.asked)
	}

	if rec := serve(e, http.MethodGet, "/lookup/11222333000182", "", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad check digit, got %d", rec.Code)
	}
	if len(lookup.asked) != 1 {
		t.Fatal("invalid CNPJs must not reach the service")
	}
}
