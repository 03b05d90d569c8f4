package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/xuri/excelize/v2"
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/domain/policy"
	"pontodigital/cmd/internal/timeline"
	"pontodigital/cmd/internal/utils/apierror"
)

const (
	ledgerTimeLayout = "02/01/2006 15:04:05"
	sheetName        = "Registros"
)

var sheetHeader = []any{"Data", "Hora", "Tipo", "Colaborador", "Matrícula", "Endereço", "Status"}

type ExportService struct {
	Stores   StoreProvider
	Policy   *policy.AccessPolicy
	Location *time.Location
	Now      func() time.Time
}

func NewExportService(stores StoreProvider, accessPolicy *policy.AccessPolicy, loc *time.Location) *ExportService {
	return &ExportService{
		Stores:   stores,
		Policy:   accessPolicy,
		Location: loc,
		Now:      time.Now,
	}
}

// Ledger renders one line per record: "timestamp | type | address".
func (e *ExportService) Ledger(ctx context.Context, actor *entity.Session, badge string) ([]byte, apierror.ErrorResponse) {
	records, apierr := e.records(ctx, actor, badge)
	if apierr != nil {
		return nil, apierr
	}

	var buf bytes.Buffer
	for _, r := range records {
		fmt.Fprintf(&buf, "%s | %s | %s\n",
			r.Timestamp.In(e.Location).Format(ledgerTimeLayout), r.Type, r.Address)
	}
	return buf.Bytes(), nil
}

// Metadata is the JSON snapshot of the session and the requesting device.
func (e *ExportService) Metadata(ctx context.Context, actor *entity.Session, userAgent, remoteIP string) (*contract.DeviceMetadata, apierror.ErrorResponse) {
	records, apierr := e.records(ctx, actor, actor.Badge)
	if apierr != nil {
		return nil, apierr
	}

	meta := &contract.DeviceMetadata{
		GeneratedAt: e.Now().In(e.Location).Format(time.RFC3339),
		User:        toUserSession(actor),
		UserAgent:   userAgent,
		RemoteIP:    remoteIP,
		Records:     len(records),
	}

	if len(records) > 0 {
		meta.LastPunch = records[0].Timestamp.In(e.Location).Format(time.RFC3339)
	}
	return meta, nil
}

// Spreadsheet builds an XLSX workbook with a header row and one row per
// record, newest first.
func (e *ExportService) Spreadsheet(ctx context.Context, actor *entity.Session, badge string) ([]byte, apierror.ErrorResponse) {
	records, apierr := e.records(ctx, actor, badge)
	if apierr != nil {
		return nil, apierr
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		log.Errorf("failed to name export sheet: %v", err)
		return nil, apierror.InternalServerError
	}

	if err := f.SetSheetRow(sheetName, "A1", &sheetHeader); err != nil {
		log.Errorf("failed to write export header: %v", err)
		return nil, apierror.InternalServerError
	}

	for i, r := range records {
		local := r.Timestamp.In(e.Location)
		row := []any{
			local.Format(timeline.DayLayout),
			local.Format("15:04:05"),
			string(r.Type),
			r.UserName,
			r.Badge,
			r.Address,
			string(r.Status),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			log.Errorf("failed to address export row %d: %v", i+2, err)
			return nil, apierror.InternalServerError
		}

		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			log.Errorf("failed to write export row %d: %v", i+2, err)
			return nil, apierror.InternalServerError
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Errorf("failed to render export workbook: %v", err)
		return nil, apierror.InternalServerError
	}
	return buf.Bytes(), nil
}

func (e *ExportService) records(ctx context.Context, actor *entity.Session, badge string) ([]*entity.PointRecord, apierror.ErrorResponse) {
	if perr := e.Policy.Require(actor, entity.PermissionExport); perr != nil {
		return nil, perr
	}

	if badge == "" && !actor.Role.Permissions().Has(entity.PermissionAdministrator) {
		badge = actor.Badge
	}

	if badge != "" {
		if perr := e.Policy.CanSeeRecordsOf(actor, badge); perr != nil {
			return nil, perr
		}
	}

	store, err := e.Stores.Get(ctx, actor.CompanyCode)
	if err != nil {
		log.Errorf("failed to open live store of %s: %v", actor.CompanyCode, err)
		return nil, apierror.InternalServerError
	}

	records := store.Records()
	if badge != "" {
		records = timeline.FilterByBadge(records, badge)
	}
	return records, nil
}
