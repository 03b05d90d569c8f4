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

type AssistantService interface {
	Chat(ctx context.Context, actor *entity.Session, req *contract.ChatRequest) (*contract.ChatResponse, apierror.ErrorResponse)
	Summary(ctx context.Context, actor *entity.Session) (*contract.SummaryResponse, apierror.ErrorResponse)
}

type DefaultAssistantRoute struct {
	AssistantService AssistantService
}

func NewAssistantDefault(assistantService AssistantService) *DefaultAssistantRoute {
	return &DefaultAssistantRoute{AssistantService: assistantService}
}

func (a *DefaultAssistantRoute) Chat(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	answer, apierr := a.AssistantService.Chat(c.Request().Context(), sess, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, answer)
}

func (a *DefaultAssistantRoute) Summary(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	summary, apierr := a.AssistantService.Summary(c.Request().Context(), sess)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, summary)
}
