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

type EmployeeService interface {
	GetEmployees(actor *entity.Session) ([]*contract.EmployeeResponse, apierror.ErrorResponse)
	GetEmployee(actor *entity.Session, rawID string) (*contract.EmployeeResponse, apierror.ErrorResponse)
	CreateEmployee(ctx context.Context, actor *entity.Session, req *contract.CreateEmployeeRequest) (*contract.EmployeeResponse, apierror.ErrorResponse)
	UpdateEmployee(ctx context.Context, actor *entity.Session, rawID string, req *contract.UpdateEmployeeRequest) (*contract.EmployeeResponse, apierror.ErrorResponse)
	DeleteEmployee(ctx context.Context, actor *entity.Session, rawID string) apierror.ErrorResponse
}

type DefaultEmployeeRoute struct {
	EmployeeService EmployeeService
}

func NewEmployeeDefault(employeeService EmployeeService) *DefaultEmployeeRoute {
	return &DefaultEmployeeRoute{EmployeeService: employeeService}
}

func (e *DefaultEmployeeRoute) GetEmployees(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	employees, apierr := e.EmployeeService.GetEmployees(sess)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"employees": employees}
	return c.JSON(http.StatusOK, &resp)
}

func (e *DefaultEmployeeRoute) GetEmployee(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	targetID := strings.TrimSpace(c.Param("id"))
	if targetID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	resp, apierr := e.EmployeeService.GetEmployee(sess, targetID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (e *DefaultEmployeeRoute) CreateEmployee(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.CreateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	employee, apierr := e.EmployeeService.CreateEmployee(c.Request().Context(), sess, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, employee)
}

func (e *DefaultEmployeeRoute) UpdateEmployee(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	targetID := strings.TrimSpace(c.Param("id"))
	var req contract.UpdateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	employee, apierr := e.EmployeeService.UpdateEmployee(c.Request().Context(), sess, targetID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, employee)
}

func (e *DefaultEmployeeRoute) DeleteEmployee(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	targetID := strings.TrimSpace(c.Param("id"))
	if apierr := e.EmployeeService.DeleteEmployee(c.Request().Context(), sess, targetID); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
