package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/credentials"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/domain/policy"
	"pontodigital/cmd/internal/geo"
	"pontodigital/cmd/internal/infrastructure/aws/storage"
	"pontodigital/cmd/internal/livesync"
	"pontodigital/cmd/internal/punch"
	"pontodigital/cmd/internal/timeline"
	"pontodigital/cmd/internal/utils"
	"pontodigital/cmd/internal/utils/apierror"
	"pontodigital/cmd/internal/utils/uid"
)

type RecordRepository interface {
	FindAllByCompany(code string) ([]*entity.PointRecord, error)
	FindByBadge(code, badge string) ([]*entity.PointRecord, error)
	Create(record *entity.PointRecord) error
}

type RecordService struct {
	RecordRepo    RecordRepository
	EmployeeRepo  EmployeeRepository
	CompanyRepo   CompanyRepository
	Hasher        credentials.Hasher
	S3            storage.S3Client
	Stores        StoreProvider
	Policy        *policy.AccessPolicy
	Publisher     Publisher
	Validate      *validator.Validate
	Location      *time.Location
	Strategy      timeline.Strategy
	LocateTimeout time.Duration
	Now           func() time.Time

	// inflight holds "company/badge" keys of punches being submitted.
	inflight sync.Map
}

func NewRecordService(
	recordRepo RecordRepository,
	employeeRepo EmployeeRepository,
	companyRepo CompanyRepository,
	hasher credentials.Hasher,
	s3 storage.S3Client,
	stores StoreProvider,
	accessPolicy *policy.AccessPolicy,
	publisher Publisher,
	validate *validator.Validate,
	loc *time.Location,
	strategy timeline.Strategy,
) *RecordService {
	return &RecordService{
		RecordRepo:    recordRepo,
		EmployeeRepo:  employeeRepo,
		CompanyRepo:   companyRepo,
		Hasher:        hasher,
		S3:            s3,
		Stores:        stores,
		Policy:        accessPolicy,
		Publisher:     publisher,
		Validate:      validate,
		Location:      loc,
		Strategy:      strategy,
		LocateTimeout: geo.DefaultLocateTimeout,
		Now:           time.Now,
	}
}

// submitError carries an API error out of the punch flow.
type submitError struct {
	resp apierror.ErrorResponse
}

func (e *submitError) Error() string {
	return fmt.Sprintf("punch submission failed with status %d", e.resp.Code())
}

// Punch records a clock event. Employees punch for themselves; totems punch
// for the badge in the request after checking that employee's password.
func (s *RecordService) Punch(ctx context.Context, actor *entity.Session, req *contract.PunchRequest) (*contract.RecordResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	badge := actor.Badge
	if actor.Role == entity.RoleTotem {
		if req.Badge == "" {
			return nil, apierror.NewMissingParamError("badge")
		}
		badge = req.Badge
	}

	if perr := s.Policy.CanPunchFor(actor, badge); perr != nil {
		return nil, perr
	}

	employee, err := s.EmployeeRepo.FindByBadge(actor.CompanyCode, badge)
	if err != nil {
		log.Errorf("failed to find employee %s of %s: %v", badge, actor.CompanyCode, err)
		return nil, apierror.InternalServerError
	}

	if employee == nil {
		return nil, apierror.EmployeeNotFound
	}

	if actor.Role == entity.RoleTotem && !s.Hasher.Verify(employee.PasswordHash, req.Password) {
		return nil, apierror.CredentialsMismatch
	}

	if !employee.Active {
		return nil, apierror.InactiveEmployeeError
	}

	company, err := s.CompanyRepo.FindByID(actor.CompanyCode)
	if err != nil {
		log.Errorf("failed to find company %s: %v", actor.CompanyCode, err)
		return nil, apierror.InternalServerError
	}

	if company == nil {
		return nil, apierror.CompanyNotFound
	}

	photo, ext, err := utils.DecodePhoto(req.Photo, contract.MaxPhotoSizeBytes)
	if err != nil {
		return nil, apierror.InvalidPhotoError
	}

	key := company.ID + "/" + employee.Badge
	if _, busy := s.inflight.LoadOrStore(key, struct{}{}); busy {
		return nil, apierror.PunchInProgressError
	}
	defer s.inflight.Delete(key)

	typ := entity.PunchType(req.Type)
	if typ == "" {
		typ = s.nextType(company.ID, employee.Badge)
	}

	submitter := &recordSubmitter{
		svc:      s,
		company:  company,
		employee: employee,
		ext:      ext,
	}

	flow := punch.NewFlow(
		&punch.PayloadCamera{Frame: photo},
		requestLocator(req),
		submitter,
		punch.Options{LocateTimeout: s.LocateTimeout, Now: s.Now},
	)

	rec, err := flow.Run(ctx, typ, req.Signature, req.Mood)
	if err != nil {
		var se *submitError
		if errors.As(err, &se) {
			return nil, se.resp
		}

		if errors.Is(err, punch.ErrEmptyPhoto) {
			return nil, apierror.InvalidPhotoError
		}

		log.Errorf("punch of %s failed in state %s: %v", key, flow.State(), err)
		return nil, apierror.InternalServerError
	}
	return toRecordResponse(rec, s.Location), nil
}

// GetRecords lists the company's records newest first. Non-administrators
// only ever see their own.
func (s *RecordService) GetRecords(ctx context.Context, actor *entity.Session, badge string) ([]*contract.RecordResponse, apierror.ErrorResponse) {
	records, apierr := s.visibleRecords(ctx, actor, badge)
	if apierr != nil {
		return nil, apierr
	}

	resp := make([]*contract.RecordResponse, len(records))
	for i, r := range records {
		resp[i] = toRecordResponse(r, s.Location)
	}
	return resp, nil
}

// Timeline builds the four daily slots for one employee. rawDate defaults to
// today.
func (s *RecordService) Timeline(ctx context.Context, actor *entity.Session, badge, rawDate string) (*contract.TimelineResponse, apierror.ErrorResponse) {
	if badge == "" {
		badge = actor.Badge
	}
	if badge == "" {
		return nil, apierror.NewMissingParamError("badge")
	}

	now := s.Now().In(s.Location)
	day := now
	if rawDate != "" {
		date, err := timeline.NormalizeDate(rawDate)
		if err != nil {
			return nil, apierror.NewInvalidParamTypeError("date", "YYYY-MM-DD")
		}
		day, _ = time.ParseInLocation(timeline.CanonicalLayout, date, s.Location)
	}

	records, apierr := s.visibleRecords(ctx, actor, badge)
	if apierr != nil {
		return nil, apierr
	}

	slots := timeline.DailyTimeline(records, day, s.Location, s.Strategy)

	// Open pairs only count up to now on the current day.
	until := now
	if timeline.DayLabel(day, s.Location) != timeline.DayLabel(now, s.Location) {
		until = day
	}

	resp := &contract.TimelineResponse{
		Date:          day.Format(timeline.CanonicalLayout),
		Slots:         make([]*contract.SlotResponse, len(slots)),
		NextType:      string(timeline.NextPunchType(slots)),
		WorkedMinutes: int(timeline.WorkedDuration(slots, until).Minutes()),
	}

	for i, slot := range slots {
		resp.Slots[i] = &contract.SlotResponse{
			Type:  string(slot.Type),
			Label: slot.Label,
			Time:  slot.Time,
			Done:  slot.Done,
		}
	}

	if store, err := s.Stores.Get(ctx, actor.CompanyCode); err == nil {
		if company := store.Company(); company != nil {
			if h, ok := company.Holidays.FindByDate(resp.Date); ok {
				resp.Holiday = h.Description
			}
		}
	}
	return resp, nil
}

// History groups an employee's records by local day, newest day first.
func (s *RecordService) History(ctx context.Context, actor *entity.Session, badge string) ([]*contract.DayGroupResponse, apierror.ErrorResponse) {
	if badge == "" {
		badge = actor.Badge
	}
	if badge == "" {
		return nil, apierror.NewMissingParamError("badge")
	}

	records, apierr := s.visibleRecords(ctx, actor, badge)
	if apierr != nil {
		return nil, apierr
	}

	groups := timeline.GroupByDay(records, s.Location)
	days := timeline.SortedDays(groups)

	resp := make([]*contract.DayGroupResponse, len(days))
	for i, day := range days {
		group := groups[day]
		out := make([]*contract.RecordResponse, len(group))
		for j, r := range group {
			out[j] = toRecordResponse(r, s.Location)
		}
		resp[i] = &contract.DayGroupResponse{Day: day, Records: out}
	}
	return resp, nil
}

// visibleRecords reads the live store of the actor's company and narrows it
// to what the actor may see. An empty badge means "everyone" for admins.
func (s *RecordService) visibleRecords(ctx context.Context, actor *entity.Session, badge string) ([]*entity.PointRecord, apierror.ErrorResponse) {
	if badge == "" && !actor.Role.Permissions().Has(entity.PermissionAdministrator) {
		badge = actor.Badge
	}

	if badge != "" {
		if perr := s.Policy.CanSeeRecordsOf(actor, badge); perr != nil {
			return nil, perr
		}
	}

	store, err := s.Stores.Get(ctx, actor.CompanyCode)
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

// nextType suggests the type of the next punch from today's timeline. It
// reads the database since the live store may lag a write behind.
func (s *RecordService) nextType(companyCode, badge string) entity.PunchType {
	records, err := s.RecordRepo.FindByBadge(companyCode, badge)
	if err != nil {
		log.Warnf("failed to read records of %s/%s, assuming entrada: %v", companyCode, badge, err)
		return entity.PunchEntrada
	}

	slots := timeline.DailyTimeline(records, s.Now(), s.Location, s.Strategy)
	return timeline.NextPunchType(slots)
}

// requestLocator reports the coordinates the client sent. Without them the
// flow falls back to the fixed location.
func requestLocator(req *contract.PunchRequest) geo.Locator {
	if req.Latitude == nil || req.Longitude == nil {
		return nil
	}

	pos := geo.Position{
		Lat:     *req.Latitude,
		Lng:     *req.Longitude,
		Address: req.Address,
	}
	if pos.Address == "" {
		pos.Address = fmt.Sprintf("%.6f, %.6f", pos.Lat, pos.Lng)
	}

	return geo.LocatorFunc(func(ctx context.Context) (geo.Position, error) {
		return pos, nil
	})
}

// recordSubmitter writes the captured punch: photo to S3, record to the
// database, then announces the change.
type recordSubmitter struct {
	svc      *RecordService
	company  *entity.Company
	employee *entity.Employee
	ext      string
}

func (r *recordSubmitter) Submit(ctx context.Context, c *punch.Capture) (*entity.PointRecord, error) {
	s := r.svc

	photoURL, apierr := storePhoto(ctx, s.S3, r.company.ID, storage.PathRecords, c.Photo, r.ext)
	if apierr != nil {
		return nil, &submitError{resp: apierr}
	}

	rec := &entity.PointRecord{
		ID:               uid.Generate(),
		CompanyCode:      r.company.ID,
		UserName:         r.employee.Name,
		Badge:            r.employee.Badge,
		Timestamp:        c.TakenAt.UTC(),
		Latitude:         c.Position.Lat,
		Longitude:        c.Position.Lng,
		Address:          c.Position.Address,
		FallbackLocation: c.Position.Fallback,
		PhotoURL:         photoURL,
		Status:           recordStatus(r.company, c.Position),
		Signature:        c.Signature,
		Type:             c.Type,
		Mood:             c.Mood,
	}

	if err := s.RecordRepo.Create(rec); err != nil {
		deletePhoto(ctx, s.S3, photoURL)
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	publish(s.Publisher, livesync.CollectionRecords, r.company.ID)
	return rec, nil
}

// recordStatus flags punches that need an administrator's eye: fallback
// positions and positions outside the company's geofence.
func recordStatus(company *entity.Company, pos geo.Position) entity.RecordStatus {
	if pos.Fallback {
		return entity.RecordPending
	}

	if company.GeofenceEnabled && company.GeofenceRadius > 0 {
		fence := geo.Fence{Lat: company.GeofenceLat, Lng: company.GeofenceLng, Radius: company.GeofenceRadius}
		if !fence.Contains(pos) {
			return entity.RecordPending
		}
	}
	return entity.RecordSynchronized
}

func toRecordResponse(r *entity.PointRecord, loc *time.Location) *contract.RecordResponse {
	return &contract.RecordResponse{
		ID:               strconv.FormatInt(r.ID, 10),
		UserName:         r.UserName,
		Badge:            r.Badge,
		Timestamp:        r.Timestamp.In(loc).Format(time.RFC3339),
		Type:             string(r.Type),
		Status:           string(r.Status),
		Latitude:         r.Latitude,
		Longitude:        r.Longitude,
		Address:          r.Address,
		FallbackLocation: r.FallbackLocation,
		PhotoURL:         r.PhotoURL,
		Mood:             r.Mood,
	}
}
