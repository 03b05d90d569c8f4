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

type CompanyService interface {
	GetCompany(actor *entity.Session) (*contract.CompanyResponse, apierror.ErrorResponse)
	UpdateCompany(ctx context.Context, actor *entity.Session, req *contract.UpdateCompanyRequest) (*contract.CompanyResponse, apierror.ErrorResponse)
	GetHolidays(actor *entity.Session) ([]*contract.HolidayResponse, apierror.ErrorResponse)
	AddHoliday(actor *entity.Session, req *contract.HolidayRequest) (*contract.HolidayResponse, apierror.ErrorResponse)
	RemoveHoliday(actor *entity.Session, key string) apierror.ErrorResponse
	RotateTotemSecret(actor *entity.Session) (*contract.TotemSecretResponse, apierror.ErrorResponse)
	GetTotemCode(actor *entity.Session) (*contract.TotemCodeResponse, apierror.ErrorResponse)
	Dashboard(ctx context.Context, actor *entity.Session) (*contract.DashboardResponse, apierror.ErrorResponse)
}

type DefaultCompanyRoute struct {
	CompanyService CompanyService
}

func NewCompanyDefault(companyService CompanyService) *DefaultCompanyRoute {
	return &DefaultCompanyRoute{CompanyService: companyService}
}

func (r *DefaultCompanyRoute) GetCompany(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	company, apierr := r.CompanyService.GetCompany(sess)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, company)
}

func (r *DefaultCompanyRoute) UpdateCompany(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.UpdateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	company, apierr := r.CompanyService.UpdateCompany(c.Request().Context(), sess, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, company)
}

func (r *DefaultCompanyRoute) GetHolidays(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	holidays, apierr := r.CompanyService.GetHolidays(sess)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"holidays": holidays}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultCompanyRoute) AddHoliday(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.HolidayRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	holiday, apierr := r.CompanyService.AddHoliday(sess, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, holiday)
}

// RemoveHoliday accepts either the holiday id or its date as the key.
func (r *DefaultCompanyRoute) RemoveHoliday(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("key"))
	}

	if apierr := r.CompanyService.RemoveHoliday(sess, key); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *DefaultCompanyRoute) RotateTotemSecret(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	secret, apierr := r.CompanyService.RotateTotemSecret(sess)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, secret)
}

func (r *DefaultCompanyRoute) GetTotemCode(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	code, apierr := r.CompanyService.GetTotemCode(sess)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, code)
}

func (r *DefaultCompanyRoute) Dashboard(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	dash, apierr := r.CompanyService.Dashboard(c.Request().Context(), sess)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, dash)
}
