package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/utils"
	"pontodigital/cmd/internal/utils/apierror"
)

const MIMESpreadsheet = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RecordService interface {
	Punch(ctx context.Context, actor *entity.Session, req *contract.PunchRequest) (*contract.RecordResponse, apierror.ErrorResponse)
	GetRecords(ctx context.Context, actor *entity.Session, badge string) ([]*contract.RecordResponse, apierror.ErrorResponse)
	Timeline(ctx context.Context, actor *entity.Session, badge, rawDate string) (*contract.TimelineResponse, apierror.ErrorResponse)
	History(ctx context.Context, actor *entity.Session, badge string) ([]*contract.DayGroupResponse, apierror.ErrorResponse)
}

type ExportService interface {
	Ledger(ctx context.Context, actor *entity.Session, badge string) ([]byte, apierror.ErrorResponse)
	Metadata(ctx context.Context, actor *entity.Session, userAgent, remoteIP string) (*contract.DeviceMetadata, apierror.ErrorResponse)
	Spreadsheet(ctx context.Context, actor *entity.Session, badge string) ([]byte, apierror.ErrorResponse)
}

type DefaultRecordRoute struct {
	RecordService RecordService
	ExportService ExportService
}

func NewRecordDefault(recordService RecordService, exportService ExportService) *DefaultRecordRoute {
	return &DefaultRecordRoute{
		RecordService: recordService,
		ExportService: exportService,
	}
}

func (r *DefaultRecordRoute) Punch(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		mediaTypeError := apierror.InvalidMediaTypeError
		return c.JSON(http.StatusUnsupportedMediaType, mediaTypeError)
	}

	var req contract.PunchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	record, apierr := r.RecordService.Punch(c.Request().Context(), sess, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, record)
}

// GetRecords lists records newest first. Admins may narrow to one badge with
// ?badge=; everyone else always gets their own.
func (r *DefaultRecordRoute) GetRecords(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	records, apierr := r.RecordService.GetRecords(c.Request().Context(), sess, c.QueryParam("badge"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"records": records}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultRecordRoute) Timeline(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	tl, apierr := r.RecordService.Timeline(c.Request().Context(), sess, c.QueryParam("badge"), c.QueryParam("date"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, tl)
}

func (r *DefaultRecordRoute) History(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	days, apierr := r.RecordService.History(c.Request().Context(), sess, c.QueryParam("badge"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"days": days}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultRecordRoute) ExportLedger(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	data, apierr := r.ExportService.Ledger(c.Request().Context(), sess, c.QueryParam("badge"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	setAttachment(c, "registros.txt")
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, data)
}

func (r *DefaultRecordRoute) ExportMetadata(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	meta, apierr := r.ExportService.Metadata(c.Request().Context(), sess, c.Request().UserAgent(), c.RealIP())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	setAttachment(c, "metadados.json")
	return c.JSON(http.StatusOK, meta)
}

func (r *DefaultRecordRoute) ExportSpreadsheet(c echo.Context) error {
	sess, cerr := utils.GetSessionFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	data, apierr := r.ExportService.Spreadsheet(c.Request().Context(), sess, c.QueryParam("badge"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	setAttachment(c, "registros.xlsx")
	return c.Blob(http.StatusOK, MIMESpreadsheet, data)
}

func setAttachment(c echo.Context, name string) {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
}
