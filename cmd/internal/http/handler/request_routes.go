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

type RequestService interface {
	CreateRequest(ctx context.Context, actor *entity.Session, req *contract.CreateAttendanceRequest) (*contract.AttendanceRequestResponse, apierror.ErrorResponse)
	GetRequests(actor *entity.Session, status string) ([]*contract.AttendanceRequestResponse, apierror.ErrorResponse)
	GetRequest(actor *entity.Session, id string) (*contract.AttendanceRequestResponse, apierror.ErrorResponse)
	DecideRequest(actor *entity.Session, id string, req *contract.DecideRequest) (*contract.AttendanceRequestResponse, apierror.ErrorResponse)
}

type DefaultRequestRoute struct {
	RequestService RequestService
}

func NewRequestDefault(requestService RequestService) *DefaultRequestRoute {
	return &DefaultRequestRoute{RequestService: requestService}
}

func (r *DefaultRequestRoute) GetRequests(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	requests, apierr := r.RequestService.GetRequests(sess, c.QueryParam("status"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"requests": requests}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultRequestRoute) GetRequest(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	ar, apierr := r.RequestService.GetRequest(sess, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, ar)
}

func (r *DefaultRequestRoute) CreateRequest(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.CreateAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	ar, apierr := r.RequestService.CreateRequest(c.Request().Context(), sess, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, ar)
}

func (r *DefaultRequestRoute) DecideRequest(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id := strings.TrimSpace(c.Param("id"))
	var req contract.DecideRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	ar, apierr := r.RequestService.DecideRequest(sess, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, ar)
}
