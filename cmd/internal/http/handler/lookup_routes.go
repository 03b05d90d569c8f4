package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/utils"
	"pontodigital/cmd/internal/utils/apierror"
)

type LookupService interface {
	GetCompanyByCNPJ(ctx context.Context, actor *entity.Session, cnpj string) (*contract.LookupResponse, apierror.ErrorResponse)
}

type DefaultLookupRoute struct {
	LookupService LookupService
}

func NewLookupRoute(lookupService LookupService) *DefaultLookupRoute {
	return &DefaultLookupRoute{LookupService: lookupService}
}

func (u *DefaultLookupRoute) GetCompany(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	cnpj := utils.NormalizeCNPJ(strings.TrimSpace(c.Param("cnpj")))
	if !utils.IsCNPJValid(cnpj) {
		apierr := apierror.InvalidCNPJError
		return c.JSON(apierr.Code(), apierr)
	}

	company, apierr := u.LookupService.GetCompanyByCNPJ(c.Request().Context(), sess, cnpj)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, company)
}
