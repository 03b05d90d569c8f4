package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/utils"
	"pontodigital/cmd/internal/utils/apierror"
)

type AuthService interface {
	LoginEmployee(ctx context.Context, req *contract.EmployeeLoginRequest) (*contract.SessionResponse, apierror.ErrorResponse)
	LoginAdmin(ctx context.Context, req *contract.AdminLoginRequest) (*contract.SessionResponse, apierror.ErrorResponse)
	LoginTotem(ctx context.Context, req *contract.TotemLoginRequest) (*contract.SessionResponse, apierror.ErrorResponse)
	SignupAdmin(ctx context.Context, req *contract.AdminSignupRequest) (*contract.SessionResponse, apierror.ErrorResponse)
	Logout(ctx context.Context, sess *entity.Session) apierror.ErrorResponse
	Me(sess *entity.Session) *contract.SessionResponse
	ChangeView(sess *entity.Session, req *contract.ChangeViewRequest) (*contract.UserSession, apierror.ErrorResponse)
}

type DefaultAuthRoute struct {
	AuthService AuthService
}

func NewAuthDefault(authService AuthService) *DefaultAuthRoute {
	return &DefaultAuthRoute{AuthService: authService}
}

func (a *DefaultAuthRoute) LoginEmployee(c echo.Context) error {
	var req contract.EmployeeLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := a.AuthService.LoginEmployee(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *DefaultAuthRoute) LoginAdmin(c echo.Context) error {
	var req contract.AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := a.AuthService.LoginAdmin(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *DefaultAuthRoute) LoginTotem(c echo.Context) error {
	var req contract.TotemLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := a.AuthService.LoginTotem(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *DefaultAuthRoute) Signup(c echo.Context) error {
	var req contract.AdminSignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := a.AuthService.SignupAdmin(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (a *DefaultAuthRoute) Logout(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	if apierr := a.AuthService.Logout(c.Request().Context(), sess); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *DefaultAuthRoute) Me(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}
	return c.JSON(http.StatusOK, a.AuthService.Me(sess))
}

func (a *DefaultAuthRoute) ChangeView(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.ChangeViewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	user, apierr := a.AuthService.ChangeView(sess, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, user)
}
